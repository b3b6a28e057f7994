package tiktok

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

func testCreds() domain.TikTokCredentials {
	return domain.TikTokCredentials{
		AppID:        "app-1",
		Secret:       "secret",
		AccessToken:  "token",
		AdvertiserID: "7001234567",
	}
}

func testStepContext() *integrator.StepContext {
	return &integrator.StepContext{
		Campaign: &domain.AdCampaign{
			Name:        "Vaga Atendente",
			StartDate:   time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 7, 15, 18, 0, 0, 0, time.UTC),
			TotalBudget: 350.5,
			Content: domain.AdContent{
				Title:        "Atendente de Loja",
				Description:  "Shopping center",
				CallToAction: "apply_now",
				LandingURL:   "https://vagas.example.com/atendente",
				ImageURL:     "https://cdn.example.com/vaga.png",
			},
			Audience: domain.TargetAudience{
				Locations: []string{"6252001"},
				AgeRange:  domain.AgeRange{Min: 18, Max: 30},
				Genders:   []domain.Gender{domain.GenderFemale},
			},
			Platform: domain.PlatformTikTok,
		},
		Creds: testCreds(),
		IDs:   map[string]string{},
	}
}

func TestValidatePrerequisites(t *testing.T) {
	assert.NoError(t, validatePrerequisites(testCreds()))

	semAdvertiser := testCreds()
	semAdvertiser.AdvertiserID = ""
	assert.Error(t, validatePrerequisites(semAdvertiser))

	assert.Error(t, validatePrerequisites(domain.GoogleCredentials{}))
}

func TestAuthHeadersUsamAccessToken(t *testing.T) {
	headers := authHeaders("token-abc", testCreds())
	assert.Equal(t, map[string]string{"Access-Token": "token-abc"}, headers)
}

func TestStepsUsamOrcamentoNaUnidadePrincipal(t *testing.T) {
	sc := testStepContext()
	allSteps := steps()
	require.Len(t, allSteps, 4)

	campaignReq := allSteps[0].Build(sc)
	assert.Equal(t, "/campaign/create/", campaignReq.Endpoint)
	campaignBody := campaignReq.Body.(map[string]interface{})
	// Orçamento sem conversão de unidade, diferente de centavos e micros
	assert.Equal(t, 350.5, campaignBody["budget"])
	assert.Equal(t, "BUDGET_MODE_TOTAL", campaignBody["budget_mode"])
	assert.Equal(t, "7001234567", campaignBody["advertiser_id"])

	sc.IDs[integrator.LevelCampaign] = "camp-1"
	adGroupReq := allSteps[1].Build(sc)
	assert.Equal(t, "/adgroup/create/", adGroupReq.Endpoint)
	adGroupBody := adGroupReq.Body.(map[string]interface{})
	assert.Equal(t, "camp-1", adGroupBody["campaign_id"])
	assert.Equal(t, "2026-07-01 09:00:00", adGroupBody["schedule_start_time"])
	assert.Equal(t, "2026-07-15 18:00:00", adGroupBody["schedule_end_time"])
	assert.Equal(t, []string{"AGE_18_24", "AGE_25_34"}, adGroupBody["age_groups"])
	assert.Equal(t, "GENDER_FEMALE", adGroupBody["gender"])

	daily := 40.0
	sc.Campaign.DailyBudget = &daily
	adGroupBody = allSteps[1].Build(sc).Body.(map[string]interface{})
	assert.Equal(t, "BUDGET_MODE_DAY", adGroupBody["budget_mode"])
	assert.Equal(t, 40.0, adGroupBody["budget"])

	imageReq := allSteps[2].Build(sc)
	assert.Equal(t, "/file/image/ad/upload/", imageReq.Endpoint)
	imageBody := imageReq.Body.(map[string]interface{})
	assert.Equal(t, "UPLOAD_BY_URL", imageBody["upload_type"])
	assert.Equal(t, "https://cdn.example.com/vaga.png", imageBody["image_url"])

	sc.IDs[integrator.LevelAdSet] = "set-1"
	sc.IDs[integrator.LevelCreative] = "img-1"
	adReq := allSteps[3].Build(sc)
	assert.Equal(t, "/ad/create/", adReq.Endpoint)
	adBody := adReq.Body.(map[string]interface{})
	assert.Equal(t, "set-1", adBody["adgroup_id"])
	creative := adBody["creatives"].([]map[string]interface{})[0]
	assert.Equal(t, []string{"img-1"}, creative["image_ids"])
	assert.Equal(t, "APPLY_NOW", creative["call_to_action"])
}

func TestMapAgeGroups(t *testing.T) {
	tests := []struct {
		name     string
		ageRange domain.AgeRange
		want     []string
	}{
		{"Faixa estreita cobre dois buckets", domain.AgeRange{Min: 18, Max: 30}, []string{"AGE_18_24", "AGE_25_34"}},
		{"Faixa ampla cobre todos", domain.AgeRange{Min: 13, Max: 65}, []string{"AGE_13_17", "AGE_18_24", "AGE_25_34", "AGE_35_44", "AGE_45_54", "AGE_55_100"}},
		{"Bucket único", domain.AgeRange{Min: 40, Max: 44}, []string{"AGE_35_44"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapAgeGroups(tt.ageRange))
		})
	}
}

func TestMapGender(t *testing.T) {
	assert.Equal(t, "GENDER_MALE", mapGender([]domain.Gender{domain.GenderMale}))
	assert.Equal(t, "GENDER_FEMALE", mapGender([]domain.Gender{domain.GenderFemale}))
	assert.Equal(t, "GENDER_UNLIMITED", mapGender([]domain.Gender{domain.GenderAll}))
	assert.Equal(t, "GENDER_UNLIMITED", mapGender([]domain.Gender{domain.GenderMale, domain.GenderFemale}))
	assert.Equal(t, "GENDER_UNLIMITED", mapGender(nil))
}

func TestExtractField(t *testing.T) {
	extract := extractField("campaign_id")

	// IDs numéricos do envelope são normalizados para string
	assert.Equal(t, "1770000000001", extract([]byte(`{"code":0,"data":{"campaign_id":1770000000001}}`)))
	assert.Equal(t, "camp-str", extract([]byte(`{"code":0,"data":{"campaign_id":"camp-str"}}`)))
	assert.Equal(t, "", extract([]byte(`{"code":0,"data":{}}`)))
	assert.Equal(t, "", extract([]byte(`not-json`)))
}

func TestExtractAdID(t *testing.T) {
	assert.Equal(t, "1780000000009", extractAdID([]byte(`{"code":0,"data":{"ad_ids":[1780000000009]}}`)))
	assert.Equal(t, "ad-1", extractAdID([]byte(`{"code":0,"data":{"ad_ids":["ad-1","ad-2"]}}`)))
	assert.Equal(t, "", extractAdID([]byte(`{"code":0,"data":{"ad_ids":[]}}`)))
	assert.Equal(t, "", extractAdID([]byte(`{"code":0,"data":{}}`)))
}

func TestUpdateEDeleteUsamStatusUpdate(t *testing.T) {
	campaign := &domain.AdCampaign{Status: domain.StatusActive}

	req := update(campaign, "ad-1", testCreds())
	assert.Equal(t, "/ad/status/update/", req.Endpoint)
	body := req.Body.(map[string]interface{})
	assert.Equal(t, []string{"ad-1"}, body["ad_ids"])
	assert.Equal(t, "ENABLE", body["operation_status"])

	// Delete é a desativação do anúncio
	req = deleteAd("ad-1", testCreds())
	assert.Equal(t, "/ad/status/update/", req.Endpoint)
	assert.Equal(t, "DISABLE", req.Body.(map[string]interface{})["operation_status"])
}

func TestMapStatusToTikTok(t *testing.T) {
	assert.Equal(t, "ENABLE", mapStatusToTikTok(domain.StatusActive))
	assert.Equal(t, "DISABLE", mapStatusToTikTok(domain.StatusPaused))
	assert.Equal(t, "DISABLE", mapStatusToTikTok(domain.StatusDraft))
}

func TestStatusMontaFiltroDeAdIDs(t *testing.T) {
	req := status("ad-1", testCreds())
	assert.Equal(t, "/ad/get/", req.Endpoint)
	assert.Equal(t, "7001234567", req.Query.Get("advertiser_id"))
	assert.Equal(t, `{"ad_ids":["ad-1"]}`, req.Query.Get("filtering"))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.CampaignStatus
	}{
		{
			"Secondary status de entrega tem prioridade",
			`{"data":{"list":[{"operation_status":"ENABLE","secondary_status":"AD_STATUS_AUDIT"}]}}`,
			domain.StatusPending,
		},
		{
			"Operation status cobre secondary desconhecido",
			`{"data":{"list":[{"operation_status":"DISABLE","secondary_status":"ALGO_NOVO"}]}}`,
			domain.StatusPaused,
		},
		{
			"Reprovação na auditoria vira error",
			`{"data":{"list":[{"operation_status":"ENABLE","secondary_status":"AD_STATUS_AUDIT_DENY"}]}}`,
			domain.StatusError,
		},
		{
			"Ambos desconhecidos viram error",
			`{"data":{"list":[{"operation_status":"X","secondary_status":"Y"}]}}`,
			domain.StatusError,
		},
		{"Lista vazia vira error", `{"data":{"list":[]}}`, domain.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatus([]byte(tt.body)))
		})
	}
}

func TestPerformanceMontaRelatorioIntegrado(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	req := performance("ad-1", []string{"impressions", "spend"}, start, end, testCreds())
	assert.Equal(t, "/report/integrated/get/", req.Endpoint)
	assert.Equal(t, "BASIC", req.Query.Get("report_type"))
	assert.Equal(t, "AUCTION_AD", req.Query.Get("data_level"))
	assert.Equal(t, `["impressions","spend"]`, req.Query.Get("metrics"))
	assert.Equal(t, "2026-07-01", req.Query.Get("start_date"))
	assert.Equal(t, "2026-07-15", req.Query.Get("end_date"))
	assert.Contains(t, req.Query.Get("filtering"), "ad-1")
}

func TestParseMetrics(t *testing.T) {
	body := `{"data":{"list":[{"metrics":{"impressions":"8200","clicks":"310","spend":"120.40","ctr":"3.78"}}]}}`

	metrics := parseMetrics([]byte(body))
	require.NotNil(t, metrics)

	assert.Equal(t, 8200.0, metrics["impressions"])
	assert.Equal(t, 310.0, metrics["clicks"])
	assert.Equal(t, 120.40, metrics["spend"])
	assert.Equal(t, 3.78, metrics["ctr"])

	assert.Nil(t, parseMetrics([]byte(`{"data":{"list":[]}}`)))
	assert.Nil(t, parseMetrics([]byte(`not-json`)))
}
