package x

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// statusMap traduz o entity_status da Ads API para o enum comum
var statusMap = map[string]domain.CampaignStatus{
	"ACTIVE":  domain.StatusActive,
	"PAUSED":  domain.StatusPaused,
	"DRAFT":   domain.StatusDraft,
	"STOPPED": domain.StatusCompleted,
	"EXPIRED": domain.StatusCompleted,
}

// metricMap traduz os nomes genéricos para os campos de stats do X
var metricMap = map[string]string{
	"impressions": "impressions",
	"clicks":      "clicks",
	"spend":       "billed_charge_local_micro",
	"engagements": "engagements",
	"conversions": "conversions_purchases",
}

// Flow devolve o fluxo de autenticação do X. OAuth1 não tem conceito de
// refresh: o token+secret não expiram e Refresh permanece nulo, fazendo o
// gerenciador devolver REFRESH_NOT_SUPPORTED.
func Flow() auth.Flow {
	return auth.Flow{
		Authenticate: authenticate,
	}
}

func authenticate(_ context.Context, creds domain.Credentials) (string, *time.Time, error) {
	xCreds, ok := creds.(domain.XCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o X")
	}
	if xCreds.ConsumerKey == "" || xCreds.ConsumerSecret == "" ||
		xCreds.AccessToken == "" || xCreds.AccessSecret == "" {
		return "", nil, errors.New("credenciais OAuth1 do X incompletas")
	}

	// Sem expiração: o token OAuth1 vale até ser revogado
	return xCreds.AccessToken, nil, nil
}

// NewStrategy monta a tabela de estratégia do X para o adaptador genérico
func NewStrategy() *integrator.Strategy {
	return &integrator.Strategy{
		Platform:     domain.PlatformX,
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
	xCreds, ok := creds.(domain.XCredentials)
	if !ok {
		return errors.New("credenciais incompatíveis com o X")
	}
	if xCreds.AccountID == "" {
		return errors.New("account id do X não resolvido")
	}
	return nil
}

func authHeaders(_ string, creds domain.Credentials) map[string]string {
	xCreds, _ := creds.(domain.XCredentials)
	return map[string]string{
		"Authorization": buildOAuthHeader(
			xCreds.ConsumerKey,
			xCreds.ConsumerSecret,
			xCreds.AccessToken,
			xCreds.AccessSecret,
		),
	}
}

func accountID(creds domain.Credentials) string {
	xCreds, _ := creds.(domain.XCredentials)
	return xCreds.AccountID
}

// steps define o grafo do X: campanha → line item → tweet → promoted tweet.
// Os orçamentos vão em local_micro, a unidade mínima da Ads API.
func steps() []integrator.Step {
	return []integrator.Step{
		{
			Level: integrator.LevelCampaign,
			Build: func(sc *integrator.StepContext) integrator.Request {
				body := map[string]interface{}{
					"name":                            sc.Campaign.Name,
					"start_time":                      sc.Campaign.StartDate.Format(time.RFC3339),
					"end_time":                        sc.Campaign.EndDate.Format(time.RFC3339),
					"entity_status":                   "PAUSED",
					"total_budget_amount_local_micro": integrator.MicroUnits(sc.Campaign.TotalBudget),
				}
				if sc.Campaign.DailyBudget != nil {
					body["daily_budget_amount_local_micro"] = integrator.MicroUnits(*sc.Campaign.DailyBudget)
				}
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/accounts/%s/campaigns", accountID(sc.Creds)),
					Body:     body,
				}
			},
			ExtractID: extractID,
		},
		{
			Level: integrator.LevelAdSet,
			Build: func(sc *integrator.StepContext) integrator.Request {
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/accounts/%s/line_items", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"campaign_id":   sc.IDs[integrator.LevelCampaign],
						"name":          sc.Campaign.Name + " - Line Item",
						"product_type":  "PROMOTED_TWEETS",
						"objective":     "WEBSITE_CLICKS",
						"placements":    []string{"ALL_ON_TWITTER"},
						"entity_status": "PAUSED",
					},
				}
			},
			ExtractID: extractID,
		},
		{
			Level: integrator.LevelCreative,
			Build: func(sc *integrator.StepContext) integrator.Request {
				text := sc.Campaign.Content.Title + "\n" + sc.Campaign.Content.Description +
					"\n" + sc.Campaign.Content.LandingURL
				return integrator.Request{
					Method:   http.MethodPost,
					Endpoint: fmt.Sprintf("/accounts/%s/tweet", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"text":     text,
						"nullcast": true,
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
					Endpoint: fmt.Sprintf("/accounts/%s/promoted_tweets", accountID(sc.Creds)),
					Body: map[string]interface{}{
						"line_item_id": sc.IDs[integrator.LevelAdSet],
						"tweet_ids":    []string{sc.IDs[integrator.LevelCreative]},
					},
				}
			},
			ExtractID: extractID,
		},
	}
}

// dataEnvelope cobre os dois formatos de resposta da Ads API: objeto único
// e lista
type dataEnvelope struct {
	Data jsoniter.RawMessage `json:"data"`
}

type entityID struct {
	ID    string `json:"id"`
	IDStr string `json:"id_str"`
}

func extractID(body []byte) string {
	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		return ""
	}

	var single entityID
	if err := json.Unmarshal(envelope.Data, &single); err == nil {
		if single.ID != "" {
			return single.ID
		}
		if single.IDStr != "" {
			return single.IDStr
		}
	}

	var list []entityID
	if err := json.Unmarshal(envelope.Data, &list); err == nil && len(list) > 0 {
		return list[0].ID
	}

	return ""
}

func update(campaign *domain.AdCampaign, adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodPut,
		Endpoint: fmt.Sprintf("/accounts/%s/promoted_tweets/%s", accountID(creds), adID),
		Body: map[string]interface{}{
			"entity_status": mapStatusToX(campaign.Status),
		},
	}
}

func mapStatusToX(status domain.CampaignStatus) string {
	switch status {
	case domain.StatusActive:
		return "ACTIVE"
	case domain.StatusDraft:
		return "DRAFT"
	default:
		return "PAUSED"
	}
}

// deleteAd usa a remoção definitiva de promoted tweets, suportada pela Ads API
func deleteAd(adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodDelete,
		Endpoint: fmt.Sprintf("/accounts/%s/promoted_tweets/%s", accountID(creds), adID),
	}
}

func status(adID string, creds domain.Credentials) integrator.Request {
	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: fmt.Sprintf("/accounts/%s/promoted_tweets/%s", accountID(creds), adID),
	}
}

type statusResponse struct {
	Data struct {
		EntityStatus string `json:"entity_status"`
	} `json:"data"`
}

func parseStatus(body []byte) domain.CampaignStatus {
	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.StatusError
	}
	if mapped, ok := statusMap[parsed.Data.EntityStatus]; ok {
		return mapped
	}
	return domain.StatusError
}

func performance(adID string, metrics []string, start, end time.Time, creds domain.Credentials) integrator.Request {
	query := url.Values{}
	query.Set("entity", "PROMOTED_TWEET")
	query.Set("entity_ids", adID)
	query.Set("metric_groups", metricGroups(metrics))
	query.Set("granularity", "TOTAL")
	query.Set("placement", "ALL_ON_TWITTER")
	query.Set("start_time", start.Format(time.RFC3339))
	query.Set("end_time", end.Format(time.RFC3339))

	return integrator.Request{
		Method:   http.MethodGet,
		Endpoint: fmt.Sprintf("/stats/accounts/%s", accountID(creds)),
		Query:    query,
	}
}

// metricGroups deriva os grupos de métricas da Ads API a partir dos campos
// solicitados. Sem campos solicitados, pede os três grupos cobertos pelo
// mapeamento de métricas.
func metricGroups(metrics []string) string {
	groups := make([]string, 0, 3)
	seen := make(map[string]bool)

	for _, name := range metrics {
		group := "ENGAGEMENT"
		switch {
		case strings.HasSuffix(name, "_local_micro"):
			group = "BILLING"
		case strings.HasPrefix(name, "conversions_"):
			group = "WEB_CONVERSION"
		}
		if !seen[group] {
			seen[group] = true
			groups = append(groups, group)
		}
	}

	if len(groups) == 0 {
		return "ENGAGEMENT,BILLING,WEB_CONVERSION"
	}
	return strings.Join(groups, ",")
}

type statsResponse struct {
	Data []struct {
		IDData []struct {
			Metrics map[string][]float64 `json:"metrics"`
		} `json:"id_data"`
	} `json:"data"`
}

// parseMetrics soma as séries devolvidas pela Ads API; valores de billing
// chegam em local_micro e são convertidos para a unidade principal
func parseMetrics(body []byte) map[string]float64 {
	var parsed statsResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Data) == 0 {
		return nil
	}

	result := make(map[string]float64)
	for _, idData := range parsed.Data[0].IDData {
		for name, series := range idData.Metrics {
			total := 0.0
			for _, v := range series {
				total += v
			}
			if strings.HasSuffix(name, "_local_micro") {
				total /= 1_000_000
			}
			result[name] += total
		}
	}
	return result
}
