package snapchat

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// statusMap traduz o status da Marketing API para o enum comum
var statusMap = map[string]domain.CampaignStatus{
	"ACTIVE":    domain.StatusActive,
	"PAUSED":    domain.StatusPaused,
	"PENDING":   domain.StatusPending,
	"COMPLETED": domain.StatusCompleted,
	"DELETED":   domain.StatusCompleted,
	"REJECTED":  domain.StatusError,
}

// metricMap traduz os nomes genéricos para os campos de stats do Snapchat
var metricMap = map[string]string{
	"impressions": "impressions",
	"clicks":      "swipes",
	"spend":       "spend",
	"conversions": "conversion_purchases",
}

// NewStrategy monta a tabela de estratégia do Snapchat para o adaptador
// genérico. O grafo segue campanha → ad squad → criativo → anúncio, com
// orçamentos em micros.
func NewStrategy() *integrator.Strategy {
	return &integrator.Strategy{
		Platform:     domain.PlatformSnapchat,
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
		LookbackDays: 14,
	}
}

func validatePrerequisites(creds domain.Credentials) error {
	snapCreds, ok := creds.(domain.SnapchatCredentials)
	if !ok {
		return errors.New("credenciais incompatíveis com o Snapchat")
	}
	if snapCreds.AdAccountID == "" {
		return errors.New("ad account id do Snapchat não resolvido")
	}
	return nil
}

func authHeaders(token string, _ domain.Credentials) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

func adAccountID(creds domain.Credentials) string {
	snapCreds, _ := creds.(domain.SnapchatCredentials)
	return snapCreds.AdAccountID
}

func steps() []integrator.Step {
	return []integrator.Step{
		{
			Level: integrator.LevelCampaign,
			Build: func(sc *integrator.StepContext) integrator.Request {
				campaign := map[string]interface{}{
					"name":                     sc.Campaign.Name,
					"ad_account_id":            adAccountID(sc.Creds),
					"status":                   "PAUSED",
					"start_time":               sc.Campaign.StartDate.Format(time.RFC3339),
					"end_time":                 sc.Campaign.EndDate.Format(time.RFC3339),
					"lifetime_spend_cap_micro": integrator.MicroUnits(sc.Campaign.TotalBudget),
				}
				if sc.Campaign.DailyBudget != nil {
					campaign["daily_budget_micro"] = integrator.MicroUnits(*sc.Campaign.DailyBudget)
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/adaccounts/%s/campaigns", adAccountID(sc.Creds)),
					Body: map[string]interface{}{
						"campaigns": []map[string]interface{}{campaign},
					},
				}
			},
			ExtractID: extractEntityID("campaigns", "campaign"),
		},
		{
			Level: integrator.LevelAdSet,
			Build: func(sc *integrator.StepContext) integrator.Request {
				adSquad := map[string]interface{}{
					"name":              sc.Campaign.Name + " - Ad Squad",
					"campaign_id":       sc.IDs[integrator.LevelCampaign],
					"type":              "SNAP_ADS",
					"status":            "PAUSED",
					"billing_event":     "IMPRESSION",
					"optimization_goal": "SWIPES",
					"targeting":         buildTargeting(&sc.Campaign.Audience),
					"start_time":        sc.Campaign.StartDate.Format(time.RFC3339),
					"end_time":          sc.Campaign.EndDate.Format(time.RFC3339),
				}
				if sc.Campaign.DailyBudget != nil {
					adSquad["daily_budget_micro"] = integrator.MicroUnits(*sc.Campaign.DailyBudget)
				} else {
					adSquad["lifetime_budget_micro"] = integrator.MicroUnits(sc.Campaign.TotalBudget)
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/campaigns/%s/adsquads", sc.IDs[integrator.LevelCampaign]),
					Body: map[string]interface{}{
						"adsquads": []map[string]interface{}{adSquad},
					},
				}
			},
			ExtractID: extractEntityID("adsquads", "adsquad"),
		},
		{
			Level: integrator.LevelCreative,
			Build: func(sc *integrator.StepContext) integrator.Request {
				creative := map[string]interface{}{
					"name":          sc.Campaign.Name + " - Creative",
					"ad_account_id": adAccountID(sc.Creds),
					"type":          "WEB_VIEW",
					"headline":      sc.Campaign.Content.Title,
					"brand_name":    sc.Campaign.Name,
					"shareable":     true,
					"web_view_properties": map[string]interface{}{
						"url": sc.Campaign.Content.LandingURL,
					},
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/adaccounts/%s/creatives", adAccountID(sc.Creds)),
					Body: map[string]interface{}{
						"creatives": []map[string]interface{}{creative},
					},
				}
			},
			ExtractID: extractEntityID("creatives", "creative"),
		},
		{
			Level: integrator.LevelAd,
			Build: func(sc *integrator.StepContext) integrator.Request {
				ad := map[string]interface{}{
					"name":        sc.Campaign.Name + " - Ad",
					"ad_squad_id": sc.IDs[integrator.LevelAdSet],
					"creative_id": sc.IDs[integrator.LevelCreative],
					"type":        "REMOTE_WEBPAGE",
					"status":      "PAUSED",
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/adsquads/%s/ads", sc.IDs[integrator.LevelAdSet]),
					Body: map[string]interface{}{
						"ads": []map[string]interface{}{ad},
					},
				}
			},
			ExtractID: extractEntityID("ads", "ad"),
		},
	}
}

// buildTargeting traduz a audiência genérica para o vocabulário do Snapchat
func buildTargeting(audience *domain.TargetAudience) map[string]interface{} {
	geos := make([]map[string]interface{}, 0, len(audience.Locations))
	for _, country := range audience.Locations {
		geos = append(geos, map[string]interface{}{
			"country_code": strings.ToLower(country),
		})
	}

	demographic := map[string]interface{}{
		"min_age": audience.AgeRange.Min,
		"max_age": audience.AgeRange.Max,
	}
	if gender := mapGender(audience.Genders); gender != "" {
		demographic["gender"] = gender
	}

	targeting := map[string]interface{}{
		"geos":         geos,
		"demographics": []map[string]interface{}{demographic},
	}

	if len(audience.Interests) > 0 {
		interests := make([]map[string]interface{}, 0, len(audience.Interests))
		for _, interest := range audience.Interests {
			interests = append(interests, map[string]interface{}{
				"category_id": []string{interest},
			})
		}
		targeting["interests"] = interests
	}

	return targeting
}

func mapGender(genders []domain.Gender) string {
	if len(genders) != 1 {
		return ""
	}
	switch genders[0] {
	case domain.GenderMale:
		return "MALE"
	case domain.GenderFemale:
		return "FEMALE"
	default:
		return ""
	}
}

// extractEntityID percorre o envelope de lista da Marketing API:
// {"ads":[{"ad":{"id":"..."}}]}
func extractEntityID(listKey, entityKey string) func([]byte) string {
	return func(body []byte) string {
		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return ""
		}
		list, ok := parsed[listKey].([]interface{})
		if !ok || len(list) == 0 {
			return ""
		}
		wrapper, ok := list[0].(map[string]interface{})
		if !ok {
			return ""
		}
		entity, ok := wrapper[entityKey].(map[string]interface{})
		if !ok {
			return ""
		}
		id, _ := entity["id"].(string)
		return id
	}
}

func update(campaign *domain.AdCampaign, adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodPut,
		Endpoint: "/ads/" + adID,
		Body: map[string]interface{}{
			"ads": []map[string]interface{}{{
				"id":     adID,
				"name":   campaign.Name + " - Ad",
				"status": mapStatusToSnapchat(campaign.Status),
			}},
		},
	}
}

func mapStatusToSnapchat(status domain.CampaignStatus) string {
	if status == domain.StatusActive {
		return "ACTIVE"
	}
	return "PAUSED"
}

// deleteAd usa a remoção definitiva, suportada pela Marketing API
func deleteAd(adID string, _ domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodDelete,
		Endpoint: "/ads/" + adID,
	}
}

func status(adID string, _ domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/ads/" + adID,
	}
}

type adGetResponse struct {
	Ads []struct {
		Ad struct {
			Status string `json:"status"`
		} `json:"ad"`
	} `json:"ads"`
}

func parseStatus(body []byte) domain.CampaignStatus {
	var parsed adGetResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Ads) == 0 {
		return domain.StatusError
	}
	if mapped, ok := statusMap[parsed.Ads[0].Ad.Status]; ok {
		return mapped
	}
	return domain.StatusError
}

func performance(adID string, metrics []string, start, end time.Time, _ domain.Credentials) integrator.Request {
	query := url.Values{}
	query.Set("fields", strings.Join(metrics, ","))
	query.Set("granularity", "TOTAL")
	query.Set("start_time", start.Format(time.RFC3339))
	query.Set("end_time", end.Format(time.RFC3339))
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/ads/" + adID + "/stats",
		Query:    query,
	}
}

type statsResponse struct {
	TotalStats []struct {
		TotalStat struct {
			Stats map[string]interface{} `json:"stats"`
		} `json:"total_stat"`
	} `json:"total_stats"`
}

// parseMetrics lê os stats totais; spend chega em micros e é convertido
// para a unidade principal
func parseMetrics(body []byte) map[string]float64 {
	var parsed statsResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.TotalStats) == 0 {
		return nil
	}

	result := make(map[string]float64)
	for name, value := range parsed.TotalStats[0].TotalStat.Stats {
		numeric, ok := value.(float64)
		if !ok {
			continue
		}
		if name == "spend" {
			numeric /= 1_000_000
		}
		result[name] += numeric
	}
	return result
}
