package meta

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// ctaMap traduz o código genérico de call-to-action para o vocabulário da
// Graph API; códigos desconhecidos caem no default
var ctaMap = map[string]string{
	"learn_more": "LEARN_MORE",
	"apply_now":  "APPLY_NOW",
	"sign_up":    "SIGN_UP",
	"contact_us": "CONTACT_US",
	"download":   "DOWNLOAD",
	"get_quote":  "GET_QUOTE",
	"subscribe":  "SUBSCRIBE",
	"book_now":   "BOOK_TRAVEL",
	"shop_now":   "SHOP_NOW",
}

const defaultCTA = "LEARN_MORE"

// statusMap traduz o effective_status da Graph API para o enum comum
var statusMap = map[string]domain.CampaignStatus{
	"ACTIVE":          domain.StatusActive,
	"PAUSED":          domain.StatusPaused,
	"PENDING_REVIEW":  domain.StatusPending,
	"IN_PROCESS":      domain.StatusPending,
	"CAMPAIGN_PAUSED": domain.StatusPaused,
	"ADSET_PAUSED":    domain.StatusPaused,
	"ARCHIVED":        domain.StatusCompleted,
	"DELETED":         domain.StatusCompleted,
	"DISAPPROVED":     domain.StatusError,
	"WITH_ISSUES":     domain.StatusError,
}

// metricMap traduz os nomes genéricos de métrica para os campos de insights
var metricMap = map[string]string{
	"impressions": "impressions",
	"clicks":      "clicks",
	"spend":       "spend",
	"reach":       "reach",
	"frequency":   "frequency",
	"conversions": "conversions",
	"ctr":         "ctr",
}

type idResponse struct {
	ID string `json:"id"`
}

// NewStrategy monta a tabela de estratégia do Meta para o adaptador genérico
func NewStrategy() *integrator.Strategy {
	return &integrator.Strategy{
		Platform:     domain.PlatformMeta,
		Flow:         Flow(),
		Validate:     validatePrerequisites,
		AuthHeaders:  authHeaders,
		Steps:        steps(),
		Update:       update,
		Delete:       deleteAd,
		Status:       status,
		ParseStatus:  parseStatus,
		Metrics:      metricMap,
		Performance:  performance,
		ParseMetrics: parseMetrics,
		LookbackDays: 30,
	}
}

// validatePrerequisites exige ad account id e page id resolvidos antes de
// qualquer criação
func validatePrerequisites(creds domain.Credentials) error {
	metaCreds, ok := creds.(domain.MetaCredentials)
	if !ok {
		return errors.New("credenciais incompatíveis com o Meta")
	}
	if metaCreds.AdAccountID == "" {
		return errors.New("ad account id do Meta não resolvido")
	}
	if metaCreds.PageID == "" {
		return errors.New("page id do Meta não resolvido")
	}
	return nil
}

func authHeaders(token string, _ domain.Credentials) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

func accountID(creds domain.Credentials) string {
	metaCreds, _ := creds.(domain.MetaCredentials)
	return metaCreds.AdAccountID
}

func pageID(creds domain.Credentials) string {
	metaCreds, _ := creds.(domain.MetaCredentials)
	return metaCreds.PageID
}

// steps define o grafo de criação do Meta: campanha → ad set → criativo → anúncio
func steps() []integrator.Step {
	return []integrator.Step{
		{
			Level: integrator.LevelCampaign,
			Build: func(sc *integrator.StepContext) integrator.Request {
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/act_%s/campaigns", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"name":                  sc.Campaign.Name,
						"objective":             "OUTCOME_TRAFFIC",
						"status":                "PAUSED",
						"special_ad_categories": []string{"EMPLOYMENT"},
						"lifetime_budget":       integrator.MinorUnits(sc.Campaign.TotalBudget),
						"start_time":            sc.Campaign.StartDate.Format(time.RFC3339),
						"stop_time":             sc.Campaign.EndDate.Format(time.RFC3339),
					},
				}
			},
			ExtractID: extractID,
		},
		{
			Level: integrator.LevelAdSet,
			Build: func(sc *integrator.StepContext) integrator.Request {
				body := map[string]interface{}{
					"name":              sc.Campaign.Name + " - Ad Set",
					"campaign_id":       sc.IDs[integrator.LevelCampaign],
					"billing_event":     "IMPRESSIONS",
					"optimization_goal": "LINK_CLICKS",
					"targeting":         buildTargeting(&sc.Campaign.Audience),
					"start_time":        sc.Campaign.StartDate.Format(time.RFC3339),
					"end_time":          sc.Campaign.EndDate.Format(time.RFC3339),
					"status":            "PAUSED",
				}
				if sc.Campaign.DailyBudget != nil {
					body["daily_budget"] = integrator.MinorUnits(*sc.Campaign.DailyBudget)
				} else {
					body["lifetime_budget"] = integrator.MinorUnits(sc.Campaign.TotalBudget)
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/act_%s/adsets", accountID(sc.Creds)),
					Body:     body,
				}
			},
			ExtractID: extractID,
		},
		{
			Level: integrator.LevelCreative,
			Build: func(sc *integrator.StepContext) integrator.Request {
				linkData := map[string]interface{}{
					"link":    sc.Campaign.Content.LandingURL,
					"message": sc.Campaign.Content.Description,
					"name":    sc.Campaign.Content.Title,
					"call_to_action": map[string]interface{}{
						"type":  mapCTA(sc.Campaign.Content.CallToAction),
						"value": map[string]string{"link": sc.Campaign.Content.LandingURL},
					},
				}
				if sc.Campaign.Content.ImageURL != "" {
					linkData["picture"] = sc.Campaign.Content.ImageURL
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/act_%s/adcreatives", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"name": sc.Campaign.Name + " - Creative",
						"object_story_spec": map[string]interface{}{
							"page_id":   pageID(sc.Creds),
							"link_data": linkData,
						},
					},
				}
			},
			ExtractID: extractID,
		},
		{
			Level: integrator.LevelAd,
			Build: func(sc *integrator.StepContext) integrator.Request {
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/act_%s/ads", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"name":     sc.Campaign.Name + " - Ad",
						"adset_id": sc.IDs[integrator.LevelAdSet],
						"creative": map[string]string{"creative_id": sc.IDs[integrator.LevelCreative]},
						"status":   "PAUSED",
					},
				}
			},
			ExtractID: extractID,
		},
	}
}

// buildTargeting traduz a audiência genérica para o vocabulário do Meta
func buildTargeting(audience *domain.TargetAudience) map[string]interface{} {
	targeting := map[string]interface{}{
		"geo_locations": map[string]interface{}{
			"countries": audience.Locations,
		},
		"age_min": audience.AgeRange.Min,
		"age_max": audience.AgeRange.Max,
	}

	if genders := mapGenders(audience.Genders); len(genders) > 0 {
		targeting["genders"] = genders
	}

	if len(audience.Interests) > 0 {
		interests := make([]map[string]string, 0, len(audience.Interests))
		for _, interest := range audience.Interests {
			interests = append(interests, map[string]string{"name": interest})
		}
		targeting["flexible_spec"] = []map[string]interface{}{
			{"interests": interests},
		}
	}

	if len(audience.Languages) > 0 {
		targeting["locales"] = audience.Languages
	}

	return targeting
}

// mapGenders converte para os códigos do Meta: 1=masculino, 2=feminino.
// "all" (ou ambos) significa sem restrição (lista vazia).
func mapGenders(genders []domain.Gender) []int {
	var result []int
	for _, g := range genders {
		switch g {
		case domain.GenderAll:
			return nil
		case domain.GenderMale:
			result = append(result, 1)
		case domain.GenderFemale:
			result = append(result, 2)
		}
	}
	if len(result) == 2 {
		return nil
	}
	return result
}

func mapCTA(code string) string {
	if mapped, ok := ctaMap[code]; ok {
		return mapped
	}
	return defaultCTA
}

func extractID(body []byte) string {
	var parsed idResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.ID
}

func update(campaign *domain.AdCampaign, adID string, _ domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: "/" + adID,
		Body: map[string]interface{}{
			"name":   campaign.Name + " - Ad",
			"status": mapStatusToMeta(campaign.Status),
		},
	}
}

// mapStatusToMeta traduz o enum comum para o status aceito pela Graph API
func mapStatusToMeta(status domain.CampaignStatus) string {
	switch status {
	case domain.StatusActive:
		return "ACTIVE"
	case domain.StatusCompleted:
		return "ARCHIVED"
	default:
		return "PAUSED"
	}
}

// deleteAd usa a remoção definitiva, suportada pela Graph API
func deleteAd(adID string, _ domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodDelete,
		Endpoint: "/" + adID,
	}
}

func status(adID string, _ domain.Credentials) integrator.Request {
	query := url.Values{}
	query.Set("fields", "effective_status")
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/" + adID,
		Query:    query,
	}
}

type statusResponse struct {
	EffectiveStatus string `json:"effective_status"`
}

func parseStatus(body []byte) domain.CampaignStatus {
	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.StatusError
	}
	if mapped, ok := statusMap[parsed.EffectiveStatus]; ok {
		return mapped
	}
	return domain.StatusError
}

func performance(adID string, metrics []string, start, end time.Time, _ domain.Credentials) integrator.Request {
	query := url.Values{}
	query.Set("fields", joinFields(metrics))
	query.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`,
		start.Format(time.DateOnly), end.Format(time.DateOnly)))
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/" + adID + "/insights",
		Query:    query,
	}
}

func joinFields(fields []string) string {
	joined := ""
	for i, f := range fields {
		if i > 0 {
			joined += ","
		}
		joined += f
	}
	return joined
}

type insightsResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// parseMetrics lê a primeira linha de insights; a Graph API devolve os
// valores numéricos como strings
func parseMetrics(body []byte) map[string]float64 {
	var parsed insightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Data) == 0 {
		return nil
	}

	result := make(map[string]float64, len(parsed.Data[0]))
	for field, value := range parsed.Data[0] {
		switch v := value.(type) {
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				result[field] = f
			}
		case float64:
			result[field] = v
		}
	}
	return result
}
