package tiktok

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// statusMap traduz o operation_status/secondary_status da Business API para
// o enum comum
var statusMap = map[string]domain.CampaignStatus{
	"ENABLE":                 domain.StatusActive,
	"DISABLE":                domain.StatusPaused,
	"AD_STATUS_DELIVERY_OK":  domain.StatusActive,
	"AD_STATUS_NOT_DELIVERY": domain.StatusPaused,
	"AD_STATUS_AUDIT":        domain.StatusPending,
	"AD_STATUS_REAUDIT":      domain.StatusPending,
	"AD_STATUS_AUDIT_DENY":   domain.StatusError,
	"AD_STATUS_DELETE":       domain.StatusCompleted,
	"AD_STATUS_DONE":         domain.StatusCompleted,
}

// metricMap traduz os nomes genéricos para as métricas do relatório integrado
var metricMap = map[string]string{
	"impressions": "impressions",
	"clicks":      "clicks",
	"spend":       "spend",
	"reach":       "reach",
	"conversions": "conversions",
	"ctr":         "ctr",
}

// NewStrategy monta a tabela de estratégia do TikTok para o adaptador
// genérico. O grafo segue campanha → ad group → imagem → anúncio, com
// orçamentos na unidade principal da moeda.
func NewStrategy() *integrator.Strategy {
	return &integrator.Strategy{
		Platform:     domain.PlatformTikTok,
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
		LookbackDays: 7,
	}
}

func validatePrerequisites(creds domain.Credentials) error {
	tiktokCreds, ok := creds.(domain.TikTokCredentials)
	if !ok {
		return errors.New("credenciais incompatíveis com o TikTok")
	}
	if tiktokCreds.AdvertiserID == "" {
		return errors.New("advertiser id do TikTok não resolvido")
	}
	return nil
}

// authHeaders usa o header proprietário da Business API no lugar do Bearer
func authHeaders(token string, _ domain.Credentials) map[string]string {
	return map[string]string{
		"Access-Token": token,
	}
}

func advertiserID(creds domain.Credentials) string {
	tiktokCreds, _ := creds.(domain.TikTokCredentials)
	return tiktokCreds.AdvertiserID
}

func steps() []integrator.Step {
	return []integrator.Step{
		{
			Level: integrator.LevelCampaign,
			Build: func(sc *integrator.StepContext) integrator.Request {
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: "/campaign/create/",
					Body: map[string]interface{}{
						"advertiser_id":    advertiserID(sc.Creds),
						"campaign_name":    sc.Campaign.Name,
						"objective_type":   "TRAFFIC",
						"budget_mode":      "BUDGET_MODE_TOTAL",
						"budget":           sc.Campaign.TotalBudget,
						"operation_status": "DISABLE",
					},
				}
			},
			ExtractID: extractField("campaign_id"),
		},
		{
			Level: integrator.LevelAdSet,
			Build: func(sc *integrator.StepContext) integrator.Request {
				body := map[string]interface{}{
					"advertiser_id":       advertiserID(sc.Creds),
					"campaign_id":         sc.IDs[integrator.LevelCampaign],
					"adgroup_name":        sc.Campaign.Name + " - Ad Group",
					"placement_type":      "PLACEMENT_TYPE_AUTOMATIC",
					"billing_event":       "CPC",
					"optimization_goal":   "CLICK",
					"schedule_type":       "SCHEDULE_START_END",
					"schedule_start_time": sc.Campaign.StartDate.Format("2006-01-02 15:04:05"),
					"schedule_end_time":   sc.Campaign.EndDate.Format("2006-01-02 15:04:05"),
					"location_ids":        sc.Campaign.Audience.Locations,
					"age_groups":          mapAgeGroups(sc.Campaign.Audience.AgeRange),
					"operation_status":    "DISABLE",
				}
				if genders := mapGender(sc.Campaign.Audience.Genders); genders != "" {
					body["gender"] = genders
				}
				if sc.Campaign.DailyBudget != nil {
					body["budget_mode"] = "BUDGET_MODE_DAY"
					body["budget"] = *sc.Campaign.DailyBudget
				} else {
					body["budget_mode"] = "BUDGET_MODE_TOTAL"
					body["budget"] = sc.Campaign.TotalBudget
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: "/adgroup/create/",
					Body:     body,
				}
			},
			ExtractID: extractField("adgroup_id"),
		},
		{
			Level: integrator.LevelCreative,
			Build: func(sc *integrator.StepContext) integrator.Request {
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: "/file/image/ad/upload/",
					Body: map[string]interface{}{
						"advertiser_id": advertiserID(sc.Creds),
						"upload_type":   "UPLOAD_BY_URL",
						"image_url":     sc.Campaign.Content.ImageURL,
						"file_name":     sc.Campaign.Name + " - Creative",
					},
				}
			},
			ExtractID: extractField("image_id"),
		},
		{
			Level: integrator.LevelAd,
			Build: func(sc *integrator.StepContext) integrator.Request {
				creative := map[string]interface{}{
					"ad_name":          sc.Campaign.Name + " - Ad",
					"ad_format":        "SINGLE_IMAGE",
					"ad_text":          sc.Campaign.Content.Description,
					"image_ids":        []string{sc.IDs[integrator.LevelCreative]},
					"landing_page_url": sc.Campaign.Content.LandingURL,
					"call_to_action":   mapCTA(sc.Campaign.Content.CallToAction),
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: "/ad/create/",
					Body: map[string]interface{}{
						"advertiser_id": advertiserID(sc.Creds),
						"adgroup_id":    sc.IDs[integrator.LevelAdSet],
						"creatives":     []map[string]interface{}{creative},
					},
				}
			},
			ExtractID: extractAdID,
		},
	}
}

// ctaMap traduz o código genérico de call-to-action para o vocabulário da
// Business API
var ctaMap = map[string]string{
	"learn_more": "LEARN_MORE",
	"apply_now":  "APPLY_NOW",
	"sign_up":    "SIGN_UP",
	"contact_us": "CONTACT_US",
	"download":   "DOWNLOAD_NOW",
	"subscribe":  "SUBSCRIBE",
	"shop_now":   "SHOP_NOW",
}

func mapCTA(code string) string {
	if mapped, ok := ctaMap[code]; ok {
		return mapped
	}
	return "LEARN_MORE"
}

// mapAgeGroups converte a faixa etária contínua para os buckets fixos da
// Business API
func mapAgeGroups(ageRange domain.AgeRange) []string {
	buckets := []struct {
		min, max int
		code     string
	}{
		{13, 17, "AGE_13_17"},
		{18, 24, "AGE_18_24"},
		{25, 34, "AGE_25_34"},
		{35, 44, "AGE_35_44"},
		{45, 54, "AGE_45_54"},
		{55, 100, "AGE_55_100"},
	}

	var result []string
	for _, b := range buckets {
		if ageRange.Min <= b.max && ageRange.Max >= b.min {
			result = append(result, b.code)
		}
	}
	return result
}

func mapGender(genders []domain.Gender) string {
	if len(genders) != 1 {
		return "GENDER_UNLIMITED"
	}
	switch genders[0] {
	case domain.GenderMale:
		return "GENDER_MALE"
	case domain.GenderFemale:
		return "GENDER_FEMALE"
	default:
		return "GENDER_UNLIMITED"
	}
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// extractField lê um campo de data do envelope padrão; IDs numéricos são
// normalizados para string
func extractField(field string) func([]byte) string {
	return func(body []byte) string {
		var parsed envelope
		if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data == nil {
			return ""
		}
		return stringify(parsed.Data[field])
	}
}

// extractAdID lê o primeiro elemento de data.ad_ids
func extractAdID(body []byte) string {
	var parsed envelope
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data == nil {
		return ""
	}
	ids, ok := parsed.Data["ad_ids"].([]interface{})
	if !ok || len(ids) == 0 {
		return ""
	}
	return stringify(ids[0])
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func update(campaign *domain.AdCampaign, adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: "/ad/status/update/",
		Body: map[string]interface{}{
			"advertiser_id":    advertiserID(creds),
			"ad_ids":           []string{adID},
			"operation_status": mapStatusToTikTok(campaign.Status),
		},
	}
}

func mapStatusToTikTok(status domain.CampaignStatus) string {
	if status == domain.StatusActive {
		return "ENABLE"
	}
	return "DISABLE"
}

// deleteAd desativa o anúncio. A Business API não expõe remoção física de
// anúncios individuais, então DISABLE é o estado terminal usado.
func deleteAd(adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: "/ad/status/update/",
		Body: map[string]interface{}{
			"advertiser_id":    advertiserID(creds),
			"ad_ids":           []string{adID},
			"operation_status": "DISABLE",
		},
	}
}

func status(adID string, creds domain.Credentials) integrator.Request {
	query := url.Values{}
	query.Set("advertiser_id", advertiserID(creds))
	query.Set("filtering", `{"ad_ids":["`+adID+`"]}`)
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/ad/get/",
		Query:    query,
	}
}

type adGetResponse struct {
	Data struct {
		List []struct {
			OperationStatus string `json:"operation_status"`
			SecondaryStatus string `json:"secondary_status"`
		} `json:"list"`
	} `json:"data"`
}

// parseStatus prioriza o secondary_status, que carrega o estado de entrega;
// o operation_status cobre o restante
func parseStatus(body []byte) domain.CampaignStatus {
	var parsed adGetResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Data.List) == 0 {
		return domain.StatusError
	}

	entry := parsed.Data.List[0]
	if mapped, ok := statusMap[entry.SecondaryStatus]; ok {
		return mapped
	}
	if mapped, ok := statusMap[entry.OperationStatus]; ok {
		return mapped
	}
	return domain.StatusError
}

func performance(adID string, metrics []string, start, end time.Time, creds domain.Credentials) integrator.Request {
	metricsJSON, _ := json.Marshal(metrics)
	query := url.Values{}
	query.Set("advertiser_id", advertiserID(creds))
	query.Set("report_type", "BASIC")
	query.Set("data_level", "AUCTION_AD")
	query.Set("dimensions", `["ad_id"]`)
	query.Set("metrics", string(metricsJSON))
	query.Set("filtering", `[{"field_name":"ad_ids","filter_type":"IN","filter_value":"[\"`+adID+`\"]"}]`)
	query.Set("start_date", start.Format("2006-01-02"))
	query.Set("end_date", end.Format("2006-01-02"))

	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: "/report/integrated/get/",
		Query:    query,
	}
}

type reportResponse struct {
	Data struct {
		List []struct {
			Metrics map[string]string `json:"metrics"`
		} `json:"list"`
	} `json:"data"`
}

// parseMetrics lê a primeira linha do relatório; a Business API devolve os
// valores como strings
func parseMetrics(body []byte) map[string]float64 {
	var parsed reportResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Data.List) == 0 {
		return nil
	}

	result := make(map[string]float64)
	for name, raw := range parsed.Data.List[0].Metrics {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			result[name] = f
		}
	}
	return result
}
