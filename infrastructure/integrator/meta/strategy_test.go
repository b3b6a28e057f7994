package meta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

func testCreds() domain.MetaCredentials {
	return domain.MetaCredentials{
		AppID:       "app-1",
		AppSecret:   "secret",
		AccessToken: "token",
		AdAccountID: "1234567890",
		PageID:      "987654",
	}
}

func testStepContext() *integrator.StepContext {
	daily := 50.0
	return &integrator.StepContext{
		Campaign: &domain.AdCampaign{
			Name:        "Vaga Vendedor",
			StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
			TotalBudget: 1500.50,
			DailyBudget: &daily,
			Content: domain.AdContent{
				Title:        "Vendedor Interno",
				Description:  "Loja no centro",
				CallToAction: "apply_now",
				LandingURL:   "https://vagas.example.com/1",
			},
			Audience: domain.TargetAudience{
				Locations: []string{"BR"},
				AgeRange:  domain.AgeRange{Min: 18, Max: 60},
				Genders:   []domain.Gender{domain.GenderFemale},
				Interests: []string{"vendas"},
			},
			Platform: domain.PlatformMeta,
		},
		Creds: testCreds(),
		IDs:   map[string]string{},
	}
}

func TestValidatePrerequisites(t *testing.T) {
	assert.NoError(t, validatePrerequisites(testCreds()))

	semConta := testCreds()
	semConta.AdAccountID = ""
	assert.Error(t, validatePrerequisites(semConta))

	semPagina := testCreds()
	semPagina.PageID = ""
	assert.Error(t, validatePrerequisites(semPagina))

	assert.Error(t, validatePrerequisites(domain.TikTokCredentials{}))
}

func TestStepsMontamOGrafoDaGraphAPI(t *testing.T) {
	sc := testStepContext()
	allSteps := steps()
	require.Len(t, allSteps, 4)

	campaignReq := allSteps[0].Build(sc)
	assert.Equal(t, "/act_1234567890/campaigns", campaignReq.Endpoint)
	campaignBody := campaignReq.Body.(map[string]interface{})
	// Orçamento em centavos
	assert.Equal(t, int64(150050), campaignBody["lifetime_budget"])
	assert.Equal(t, "PAUSED", campaignBody["status"])
	assert.Equal(t, []string{"EMPLOYMENT"}, campaignBody["special_ad_categories"])

	sc.IDs[integrator.LevelCampaign] = "camp-1"
	adSetReq := allSteps[1].Build(sc)
	assert.Equal(t, "/act_1234567890/adsets", adSetReq.Endpoint)
	adSetBody := adSetReq.Body.(map[string]interface{})
	assert.Equal(t, "camp-1", adSetBody["campaign_id"])
	// Com orçamento diário o ad set usa daily_budget em centavos
	assert.Equal(t, int64(5000), adSetBody["daily_budget"])

	sc.IDs[integrator.LevelAdSet] = "set-1"
	creativeReq := allSteps[2].Build(sc)
	assert.Equal(t, "/act_1234567890/adcreatives", creativeReq.Endpoint)

	sc.IDs[integrator.LevelCreative] = "cre-1"
	adReq := allSteps[3].Build(sc)
	assert.Equal(t, "/act_1234567890/ads", adReq.Endpoint)
	adBody := adReq.Body.(map[string]interface{})
	assert.Equal(t, "set-1", adBody["adset_id"])
	assert.Equal(t, map[string]string{"creative_id": "cre-1"}, adBody["creative"])
}

func TestBuildTargeting(t *testing.T) {
	sc := testStepContext()
	targeting := buildTargeting(&sc.Campaign.Audience)

	geo := targeting["geo_locations"].(map[string]interface{})
	assert.Equal(t, []string{"BR"}, geo["countries"])
	assert.Equal(t, 18, targeting["age_min"])
	assert.Equal(t, 60, targeting["age_max"])
	assert.Equal(t, []int{2}, targeting["genders"])
}

func TestMapGenders(t *testing.T) {
	tests := []struct {
		name    string
		genders []domain.Gender
		want    []int
	}{
		{"Masculino vira código 1", []domain.Gender{domain.GenderMale}, []int{1}},
		{"Feminino vira código 2", []domain.Gender{domain.GenderFemale}, []int{2}},
		{"All remove a restrição", []domain.Gender{domain.GenderAll}, nil},
		{"Ambos equivalem a sem restrição", []domain.Gender{domain.GenderMale, domain.GenderFemale}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapGenders(tt.genders))
		})
	}
}

func TestMapCTA(t *testing.T) {
	assert.Equal(t, "APPLY_NOW", mapCTA("apply_now"))
	assert.Equal(t, "SHOP_NOW", mapCTA("shop_now"))
	// Código desconhecido cai no default
	assert.Equal(t, "LEARN_MORE", mapCTA("codigo_inventado"))
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "120210000", extractID([]byte(`{"id":"120210000"}`)))
	assert.Equal(t, "", extractID([]byte(`{"name":"sem id"}`)))
	assert.Equal(t, "", extractID([]byte(`not-json`)))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.CampaignStatus
	}{
		{"ACTIVE vira active", `{"effective_status":"ACTIVE"}`, domain.StatusActive},
		{"PAUSED vira paused", `{"effective_status":"PAUSED"}`, domain.StatusPaused},
		{"Pausa herdada da campanha vira paused", `{"effective_status":"CAMPAIGN_PAUSED"}`, domain.StatusPaused},
		{"PENDING_REVIEW vira pending", `{"effective_status":"PENDING_REVIEW"}`, domain.StatusPending},
		{"ARCHIVED vira completed", `{"effective_status":"ARCHIVED"}`, domain.StatusCompleted},
		{"DISAPPROVED vira error", `{"effective_status":"DISAPPROVED"}`, domain.StatusError},
		{"Status desconhecido vira error", `{"effective_status":"ALGO_NOVO"}`, domain.StatusError},
		{"Corpo inválido vira error", `not-json`, domain.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatus([]byte(tt.body)))
		})
	}
}

func TestParseMetrics(t *testing.T) {
	body := `{"data":[{"impressions":"12000","clicks":"340","spend":"125.75","ctr":2.83}]}`

	metrics := parseMetrics([]byte(body))
	require.NotNil(t, metrics)

	// A Graph API devolve números como strings
	assert.Equal(t, 12000.0, metrics["impressions"])
	assert.Equal(t, 340.0, metrics["clicks"])
	assert.Equal(t, 125.75, metrics["spend"])
	assert.Equal(t, 2.83, metrics["ctr"])

	assert.Nil(t, parseMetrics([]byte(`{"data":[]}`)))
	assert.Nil(t, parseMetrics([]byte(`not-json`)))
}

func TestMapStatusToMeta(t *testing.T) {
	assert.Equal(t, "ACTIVE", mapStatusToMeta(domain.StatusActive))
	assert.Equal(t, "ARCHIVED", mapStatusToMeta(domain.StatusCompleted))
	assert.Equal(t, "PAUSED", mapStatusToMeta(domain.StatusPaused))
	assert.Equal(t, "PAUSED", mapStatusToMeta(domain.StatusDraft))
}

func TestAuthenticateRejeitaCredenciaisInvalidas(t *testing.T) {
	_, _, err := authenticate(context.Background(), domain.XCredentials{})
	assert.Error(t, err)

	semToken := testCreds()
	semToken.AccessToken = ""
	_, _, err = authenticate(context.Background(), semToken)
	assert.Error(t, err)
}
