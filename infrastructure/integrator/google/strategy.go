package google

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// statusMap traduz o status do Google Ads para o enum comum
var statusMap = map[string]domain.CampaignStatus{
	"ENABLED":     domain.StatusActive,
	"PAUSED":      domain.StatusPaused,
	"REMOVED":     domain.StatusCompleted,
	"PENDING":     domain.StatusPending,
	"UNKNOWN":     domain.StatusError,
	"UNSPECIFIED": domain.StatusError,
}

// metricMap traduz os nomes genéricos para os campos de metrics do GAQL
var metricMap = map[string]string{
	"impressions": "metrics.impressions",
	"clicks":      "metrics.clicks",
	"spend":       "metrics.cost_micros",
	"conversions": "metrics.conversions",
	"ctr":         "metrics.ctr",
}

// NewStrategy monta a tabela de estratégia do Google Ads para o adaptador
// genérico. O grafo segue budget implícito na campanha → ad group → asset →
// ad group ad, com orçamentos em micros.
func NewStrategy() *integrator.Strategy {
	return &integrator.Strategy{
		Platform:     domain.PlatformGoogle,
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

func validatePrerequisites(creds domain.Credentials) error {
	googleCreds, ok := creds.(domain.GoogleCredentials)
	if !ok {
		return errors.New("credenciais incompatíveis com o Google Ads")
	}
	if googleCreds.CustomerID == "" {
		return errors.New("customer id do Google Ads não resolvido")
	}
	if googleCreds.DeveloperToken == "" {
		return errors.New("developer token do Google Ads não resolvido")
	}
	return nil
}

func authHeaders(token string, creds domain.Credentials) map[string]string {
	googleCreds, _ := creds.(domain.GoogleCredentials)
	headers := map[string]string{
		"Authorization":   "Bearer " + token,
		"developer-token": googleCreds.DeveloperToken,
	}
	if googleCreds.ManagerID != "" {
		headers["login-customer-id"] = googleCreds.ManagerID
	}
	return headers
}

func customerID(creds domain.Credentials) string {
	googleCreds, _ := creds.(domain.GoogleCredentials)
	return googleCreds.CustomerID
}

func steps() []integrator.Step {
	return []integrator.Step{
		{
			Level: integrator.LevelCampaign,
			Build: func(sc *integrator.StepContext) integrator.Request {
				campaign := map[string]interface{}{
					"name":                     sc.Campaign.Name,
					"status":                   "PAUSED",
					"advertising_channel_type": "SEARCH",
					"start_date":               sc.Campaign.StartDate.Format("2006-01-02"),
					"end_date":                 sc.Campaign.EndDate.Format("2006-01-02"),
					"campaign_budget": map[string]interface{}{
						"amount_micros":     integrator.MicroUnits(dailyOrTotal(sc.Campaign)),
						"delivery_method":   "STANDARD",
						"explicitly_shared": false,
					},
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/customers/%s/campaigns:mutate", customerID(sc.Creds)),
					Body: map[string]interface{}{
						"operations": []map[string]interface{}{{"create": campaign}},
					},
				}
			},
			ExtractID: extractResourceID,
		},
		{
			Level: integrator.LevelAdSet,
			Build: func(sc *integrator.StepContext) integrator.Request {
				adGroup := map[string]interface{}{
					"name":     sc.Campaign.Name + " - Ad Group",
					"campaign": campaignResource(sc),
					"status":   "PAUSED",
					"type":     "SEARCH_STANDARD",
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/customers/%s/adGroups:mutate", customerID(sc.Creds)),
					Body: map[string]interface{}{
						"operations": []map[string]interface{}{{"create": adGroup}},
					},
				}
			},
			ExtractID: extractResourceID,
		},
		{
			Level: integrator.LevelCreative,
			Build: func(sc *integrator.StepContext) integrator.Request {
				asset := map[string]interface{}{
					"name": sc.Campaign.Name + " - Asset",
					"type": "TEXT",
					"text_asset": map[string]interface{}{
						"text": sc.Campaign.Content.Title + " - " + sc.Campaign.Content.Description,
					},
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/customers/%s/assets:mutate", customerID(sc.Creds)),
					Body: map[string]interface{}{
						"operations": []map[string]interface{}{{"create": asset}},
					},
				}
			},
			ExtractID: extractResourceID,
		},
		{
			Level: integrator.LevelAd,
			Build: func(sc *integrator.StepContext) integrator.Request {
				adGroupAd := map[string]interface{}{
					"ad_group": adGroupResource(sc),
					"status":   "PAUSED",
					"ad": map[string]interface{}{
						"final_urls": []string{sc.Campaign.Content.LandingURL},
						"responsive_search_ad": map[string]interface{}{
							"headlines": []map[string]string{
								{"text": sc.Campaign.Content.Title},
							},
							"descriptions": []map[string]string{
								{"text": sc.Campaign.Content.Description},
							},
						},
					},
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/customers/%s/adGroupAds:mutate", customerID(sc.Creds)),
					Body: map[string]interface{}{
						"operations": []map[string]interface{}{{"create": adGroupAd}},
					},
				}
			},
			ExtractID: extractResourceID,
		},
	}
}

func dailyOrTotal(campaign *domain.AdCampaign) float64 {
	if campaign.DailyBudget != nil {
		return *campaign.DailyBudget
	}
	return campaign.TotalBudget
}

func campaignResource(sc *integrator.StepContext) string {
	return fmt.Sprintf("customers/%s/campaigns/%s", customerID(sc.Creds), sc.IDs[integrator.LevelCampaign])
}

func adGroupResource(sc *integrator.StepContext) string {
	return fmt.Sprintf("customers/%s/adGroups/%s", customerID(sc.Creds), sc.IDs[integrator.LevelAdSet])
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resource_name"`
	} `json:"results"`
}

// extractResourceID extrai o ID numérico do final do resource name
// (customers/123/campaigns/456 → 456)
func extractResourceID(body []byte) string {
	var parsed mutateResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Results) == 0 {
		return ""
	}

	parts := strings.Split(parsed.Results[0].ResourceName, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func update(campaign *domain.AdCampaign, adID string, creds domain.Credentials) integrator.Request {
	resource := fmt.Sprintf("customers/%s/adGroupAds/%s", customerID(creds), adID)
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("/customers/%s/adGroupAds:mutate", customerID(creds)),
		Body: map[string]interface{}{
			"operations": []map[string]interface{}{{
				"update": map[string]interface{}{
					"resource_name": resource,
					"status":        mapStatusToGoogle(campaign.Status),
				},
				"update_mask": "status",
			}},
		},
	}
}

func mapStatusToGoogle(status domain.CampaignStatus) string {
	switch status {
	case domain.StatusActive:
		return "ENABLED"
	case domain.StatusCompleted:
		return "REMOVED"
	default:
		return "PAUSED"
	}
}

// deleteAd marca o ad group ad como REMOVED. O Google Ads não tem remoção
// física, apenas a transição para o estado terminal.
func deleteAd(adID string, creds domain.Credentials) integrator.Request {
	resource := fmt.Sprintf("customers/%s/adGroupAds/%s", customerID(creds), adID)
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("/customers/%s/adGroupAds:mutate", customerID(creds)),
		Body: map[string]interface{}{
			"operations": []map[string]interface{}{{"remove": resource}},
		},
	}
}

func status(adID string, creds domain.Credentials) integrator.Request {
	query := fmt.Sprintf(
		"SELECT ad_group_ad.status FROM ad_group_ad WHERE ad_group_ad.ad.id = %s",
		adID,
	)
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("/customers/%s/googleAds:search", customerID(creds)),
		Body:     map[string]interface{}{"query": query},
	}
}

type searchResponse struct {
	Results []struct {
		AdGroupAd struct {
			Status string `json:"status"`
		} `json:"ad_group_ad"`
		Metrics map[string]interface{} `json:"metrics"`
	} `json:"results"`
}

func parseStatus(body []byte) domain.CampaignStatus {
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Results) == 0 {
		return domain.StatusError
	}
	if mapped, ok := statusMap[parsed.Results[0].AdGroupAd.Status]; ok {
		return mapped
	}
	return domain.StatusError
}

func performance(adID string, metrics []string, start, end time.Time, creds domain.Credentials) integrator.Request {
	query := fmt.Sprintf(
		"SELECT %s FROM ad_group_ad WHERE ad_group_ad.ad.id = %s AND segments.date BETWEEN '%s' AND '%s'",
		strings.Join(metrics, ", "),
		adID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	return integrator.Request{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf("/customers/%s/googleAds:search", customerID(creds)),
		Body:     map[string]interface{}{"query": query},
	}
}

// parseMetrics lê os campos de metrics da resposta GAQL; cost_micros é
// convertido para a unidade principal
func parseMetrics(body []byte) map[string]float64 {
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Results) == 0 {
		return nil
	}

	result := make(map[string]float64)
	for field, value := range parsed.Results[0].Metrics {
		numeric, ok := toFloat(value)
		if !ok {
			continue
		}
		key := "metrics." + camelToSnake(field)
		if strings.HasSuffix(key, "_micros") {
			numeric /= 1_000_000
		}
		result[key] += numeric
	}
	return result
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// camelToSnake converte os nomes camelCase do JSON REST para o formato
// snake_case usado no GAQL
func camelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
