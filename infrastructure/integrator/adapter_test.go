package integrator

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/transport"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/transport/mocks"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
	"go.uber.org/mock/gomock"
)

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(event events.Event) {
	c.events = append(c.events, event)
}

func (c *captureEmitter) types() []events.EventType {
	result := make([]events.EventType, 0, len(c.events))
	for _, e := range c.events {
		result = append(result, e.Type)
	}
	return result
}

func testCampaign() *domain.AdCampaign {
	return &domain.AdCampaign{
		Name:        "Vaga Analista",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		TotalBudget: 1500,
		Content: domain.AdContent{
			Title:        "Analista de Dados",
			Description:  "Venha trabalhar conosco",
			CallToAction: "apply_now",
			LandingURL:   "https://vagas.example.com/123",
		},
		Audience: domain.TargetAudience{
			Locations: []string{"BR"},
			AgeRange:  domain.AgeRange{Min: 20, Max: 45},
			Genders:   []domain.Gender{domain.GenderAll},
		},
		Platform: domain.PlatformMeta,
	}
}

// fakeStrategy monta uma estratégia mínima de quatro etapas para exercitar o
// adaptador genérico sem depender de nenhuma plataforma concreta
func fakeStrategy() *Strategy {
	step := func(level, endpoint string) Step {
		return Step{
			Level: level,
			Build: func(sc *StepContext) Request {
				return Request{Method: http.MethodPost, Endpoint: endpoint}
			},
			ExtractID: func(body []byte) string {
				return string(body)
			},
		}
	}

	return &Strategy{
		Platform: domain.PlatformMeta,
		Flow: auth.Flow{
			Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
				return "tok", nil, nil
			},
		},
		AuthHeaders: func(token string, _ domain.Credentials) map[string]string {
			return map[string]string{"Authorization": "Bearer " + token}
		},
		Steps: []Step{
			step(LevelCampaign, "/campaigns"),
			step(LevelAdSet, "/adsets"),
			step(LevelCreative, "/creatives"),
			step(LevelAd, "/ads"),
		},
		Update: func(_ *domain.AdCampaign, adID string, _ domain.Credentials) Request {
			return Request{Method: http.MethodPost, Endpoint: "/" + adID}
		},
		Delete: func(adID string, _ domain.Credentials) Request {
			return Request{Method: http.MethodDelete, Endpoint: "/" + adID}
		},
		Status: func(adID string, _ domain.Credentials) Request {
			return Request{Method: http.MethodGet, Endpoint: "/" + adID}
		},
		ParseStatus: func(body []byte) domain.CampaignStatus {
			return domain.CampaignStatus(body)
		},
		Metrics: map[string]string{
			"impressions": "impressions",
			"clicks":      "clicks_total",
			"spend":       "spend_total",
			"conversions": "conversions_total",
		},
		Performance: func(adID string, metrics []string, start, end time.Time, _ domain.Credentials) Request {
			return Request{Method: http.MethodGet, Endpoint: "/" + adID + "/insights"}
		},
		ParseMetrics: func(body []byte) map[string]float64 {
			return map[string]float64{
				"impressions":       1000,
				"clicks_total":      50,
				"spend_total":       100,
				"conversions_total": 4,
			}
		},
		LookbackDays: 30,
	}
}

func newTestAdapter(t *testing.T, client transport.Requester) (*Adapter, *captureEmitter) {
	t.Helper()
	log.SetupTestLogger()

	emitter := &captureEmitter{}
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}

	strategy := fakeStrategy()
	manager := auth.NewManager(
		auth.NewMemoryStore(),
		map[domain.Platform]auth.Flow{domain.PlatformMeta: strategy.Flow},
		emitter,
		log.L,
	)
	t.Cleanup(manager.Shutdown)

	return NewAdapter(strategy, client, manager, creds, emitter, log.L), emitter
}

func TestAdapterCreateAdPercorreAsQuatroEtapas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, emitter := newTestAdapter(t, client)

	gomock.InOrder(
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/campaigns", gomock.Any(), gomock.Any()).
			Return([]byte("camp-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/adsets", gomock.Any(), gomock.Any()).
			Return([]byte("set-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/creatives", gomock.Any(), gomock.Any()).
			Return([]byte("cre-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/ads", gomock.Any(), gomock.Any()).
			Return([]byte("ad-1"), nil),
	)
	client.EXPECT().RateLimitSnapshot().Return(&domain.RateLimitSnapshot{Limit: 200, Used: 4})

	resp := adapter.CreateAd(context.Background(), testCampaign())
	require.True(t, resp.Success)

	ids, ok := resp.Data.(*domain.AdIdentifiers)
	require.True(t, ok)
	assert.Equal(t, "ad-1", ids.ID)
	assert.Equal(t, "camp-1", ids.CampaignID)
	assert.Equal(t, "set-1", ids.AdSetID)
	assert.Equal(t, "cre-1", ids.CreativeID)
	assert.Equal(t, domain.StatusPending, ids.Status)

	require.NotNil(t, resp.Meta)
	assert.Equal(t, 4, resp.Meta.RateLimit.Used)

	assert.Contains(t, emitter.types(), events.EventAdCreated)
}

func TestAdapterCreateAdFalhaNoMeioPreservaIDsParciais(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, _ := newTestAdapter(t, client)

	gomock.InOrder(
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/campaigns", gomock.Any(), gomock.Any()).
			Return([]byte("camp-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/adsets", gomock.Any(), gomock.Any()).
			Return([]byte("set-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/creatives", gomock.Any(), gomock.Any()).
			Return(nil, &domain.ApiErrorDetail{
				Code:     "META_100",
				Category: domain.ErrorValidation,
				Message:  "Parâmetro inválido",
				Platform: domain.PlatformMeta,
			}),
	)

	resp := adapter.CreateAd(context.Background(), testCampaign())
	require.False(t, resp.Success)

	require.NotNil(t, resp.Error)
	assert.Equal(t, "META_100", resp.Error.Code)
	// Sem rollback: os IDs já criados ficam no erro para limpeza manual
	assert.Equal(t, map[string]string{
		LevelCampaign: "camp-1",
		LevelAdSet:    "set-1",
	}, resp.Error.PartialIDs)
}

func TestAdapterCreateAdRespostaSemID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, _ := newTestAdapter(t, client)

	gomock.InOrder(
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/campaigns", gomock.Any(), gomock.Any()).
			Return([]byte("camp-1"), nil),
		client.EXPECT().
			Request(gomock.Any(), http.MethodPost, "/adsets", gomock.Any(), gomock.Any()).
			Return([]byte(""), nil),
	)

	resp := adapter.CreateAd(context.Background(), testCampaign())
	require.False(t, resp.Success)
	assert.Equal(t, "META_MISSING_ADSET_ID", resp.Error.Code)
	assert.Equal(t, domain.ErrorUnknown, resp.Error.Category)
	assert.Equal(t, map[string]string{LevelCampaign: "camp-1"}, resp.Error.PartialIDs)
}

func TestAdapterUpdateAd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, emitter := newTestAdapter(t, client)

	client.EXPECT().
		Request(gomock.Any(), http.MethodPost, "/ad-9", gomock.Any(), gomock.Any()).
		Return([]byte(`{"success":true}`), nil)

	resp := adapter.UpdateAd(context.Background(), "ad-9", testCampaign())
	require.True(t, resp.Success)
	assert.Contains(t, emitter.types(), events.EventAdUpdated)
}

func TestAdapterDeleteAd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, emitter := newTestAdapter(t, client)

	client.EXPECT().
		Request(gomock.Any(), http.MethodDelete, "/ad-9", gomock.Any(), gomock.Any()).
		Return([]byte(`{"success":true}`), nil)

	resp := adapter.DeleteAd(context.Background(), "ad-9")
	require.True(t, resp.Success)
	assert.Contains(t, emitter.types(), events.EventAdDeleted)
}

func TestAdapterGetAdStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{"Status válido é devolvido como está", "active", "active"},
		{"Status fora do enum vira error", "UNMAPPED_STATE", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockRequester(ctrl)
			adapter, _ := newTestAdapter(t, client)

			client.EXPECT().
				Request(gomock.Any(), http.MethodGet, "/ad-9", gomock.Any(), gomock.Any()).
				Return([]byte(tt.body), nil)

			resp := adapter.GetAdStatus(context.Background(), "ad-9")
			require.True(t, resp.Success)

			data, ok := resp.Data.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, data["status"])
		})
	}
}

func TestAdapterGetAdPerformanceTraduzEDerivaMetricas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRequester(ctrl)
	adapter, _ := newTestAdapter(t, client)

	client.EXPECT().
		Request(gomock.Any(), http.MethodGet, "/ad-9/insights", gomock.Any(), gomock.Any()).
		Return([]byte(`{}`), nil)

	resp := adapter.GetAdPerformance(context.Background(), "ad-9",
		[]string{"impressions", "clicks", "spend", "conversions", "metrica_inexistente"})
	require.True(t, resp.Success)

	report, ok := resp.Data.(*domain.PerformanceReport)
	require.True(t, ok)
	assert.Equal(t, "ad-9", report.AdID)
	assert.Equal(t, domain.PlatformMeta, report.Platform)

	assert.Equal(t, float64(1000), report.Metrics["impressions"])
	assert.Equal(t, float64(50), report.Metrics["clicks"])
	assert.Equal(t, float64(100), report.Metrics["spend"])
	assert.Equal(t, float64(4), report.Metrics["conversions"])

	// Derivadas de spend/clicks e spend/conversions
	assert.Equal(t, 2.0, report.Metrics["cost_per_click"])
	assert.Equal(t, 25.0, report.Metrics["cost_per_conversion"])

	// Métrica sem mapeamento é ignorada sem falhar a consulta
	_, present := report.Metrics["metrica_inexistente"]
	assert.False(t, present)
}

func TestAdapterFalhaDeAutenticacaoViraDetalheTipado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log.SetupTestLogger()
	client := mocks.NewMockRequester(ctrl)
	emitter := &captureEmitter{}

	strategy := fakeStrategy()
	strategy.Flow = auth.Flow{
		Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
			return "", nil, assert.AnError
		},
	}

	manager := auth.NewManager(
		auth.NewMemoryStore(),
		map[domain.Platform]auth.Flow{domain.PlatformMeta: strategy.Flow},
		emitter,
		log.L,
	)
	t.Cleanup(manager.Shutdown)

	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}
	adapter := NewAdapter(strategy, client, manager, creds, emitter, log.L)

	resp := adapter.CreateAd(context.Background(), testCampaign())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.PlatformMeta, resp.Error.Platform)
}

func TestDeriveComputedMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]float64
		want    map[string]float64
	}{
		{
			name:    "Deriva custo por clique e por conversão",
			metrics: map[string]float64{"spend": 90, "clicks": 30, "conversions": 3},
			want: map[string]float64{
				"spend":          90, "clicks": 30, "conversions": 3,
				"cost_per_click": 3, "cost_per_conversion": 30,
			},
		},
		{
			name:    "Sem spend nada é derivado",
			metrics: map[string]float64{"clicks": 30},
			want:    map[string]float64{"clicks": 30},
		},
		{
			name:    "Divisão por zero é evitada",
			metrics: map[string]float64{"spend": 90, "clicks": 0},
			want:    map[string]float64{"spend": 90, "clicks": 0},
		},
		{
			name:    "Valor já presente não é sobrescrito",
			metrics: map[string]float64{"spend": 90, "clicks": 30, "cost_per_click": 1.5},
			want:    map[string]float64{"spend": 90, "clicks": 30, "cost_per_click": 1.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deriveComputedMetrics(tt.metrics)
			assert.Equal(t, tt.want, tt.metrics)
		})
	}
}
