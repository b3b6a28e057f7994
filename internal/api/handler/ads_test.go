package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// advertiserStub devolve respostas fixas e grava os argumentos recebidos
type advertiserStub struct {
	response     *domain.ApiResponse
	multiResults map[domain.Platform]*domain.ApiResponse

	gotPlatform  domain.Platform
	gotPlatforms []domain.Platform
	gotAdID      string
	gotAdIDs     map[domain.Platform]string
	gotMetrics   []string
	gotCampaign  *domain.AdCampaign
}

func (s *advertiserStub) Platforms() []domain.Platform {
	return []domain.Platform{domain.PlatformMeta, domain.PlatformTikTok}
}

func (s *advertiserStub) CreateAd(_ context.Context, platform domain.Platform, campaign *domain.AdCampaign) *domain.ApiResponse {
	s.gotPlatform, s.gotCampaign = platform, campaign
	return s.response
}

func (s *advertiserStub) UpdateAd(_ context.Context, platform domain.Platform, adID string, campaign *domain.AdCampaign) *domain.ApiResponse {
	s.gotPlatform, s.gotAdID, s.gotCampaign = platform, adID, campaign
	return s.response
}

func (s *advertiserStub) DeleteAd(_ context.Context, platform domain.Platform, adID string) *domain.ApiResponse {
	s.gotPlatform, s.gotAdID = platform, adID
	return s.response
}

func (s *advertiserStub) GetAdStatus(_ context.Context, platform domain.Platform, adID string) *domain.ApiResponse {
	s.gotPlatform, s.gotAdID = platform, adID
	return s.response
}

func (s *advertiserStub) GetAdPerformance(_ context.Context, platform domain.Platform, adID string, metrics []string) *domain.ApiResponse {
	s.gotPlatform, s.gotAdID, s.gotMetrics = platform, adID, metrics
	return s.response
}

func (s *advertiserStub) CreateMultiPlatformAd(_ context.Context, platforms []domain.Platform, campaign *domain.AdCampaign) map[domain.Platform]*domain.ApiResponse {
	s.gotPlatforms, s.gotCampaign = platforms, campaign
	return s.multiResults
}

func (s *advertiserStub) GetMultiPlatformPerformance(_ context.Context, adIDs map[domain.Platform]string, metrics []string) map[domain.Platform]*domain.ApiResponse {
	s.gotAdIDs, s.gotMetrics = adIDs, metrics
	return s.multiResults
}

func withParams(r *http.Request, params httprouter.Params) *http.Request {
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, params)
	return r.WithContext(ctx)
}

func platformParams(platform string) httprouter.Params {
	return httprouter.Params{{Key: "platform", Value: platform}}
}

func adParams(platform, adID string) httprouter.Params {
	return httprouter.Params{
		{Key: "platform", Value: platform},
		{Key: "id", Value: adID},
	}
}

func TestCreateAd(t *testing.T) {
	stub := &advertiserStub{response: domain.OK(&domain.AdIdentifiers{ID: "ad-1"})}

	body := `{"name":"Vaga","platform":"meta"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/ads/meta", strings.NewReader(body))
	r = withParams(r, platformParams("meta"))
	w := httptest.NewRecorder()

	CreateAd(stub)(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PlatformMeta, stub.gotPlatform)
	require.NotNil(t, stub.gotCampaign)
	assert.Equal(t, "Vaga", stub.gotCampaign.Name)

	var resp domain.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateAdPlataformaDesconhecida(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodPost, "/v1/ads/orkut", strings.NewReader(`{}`))
	r = withParams(r, platformParams("orkut"))
	w := httptest.NewRecorder()

	CreateAd(stub)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.gotPlatform)
}

func TestCreateAdCorpoInvalido(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodPost, "/v1/ads/meta", strings.NewReader(`not-json`))
	r = withParams(r, platformParams("meta"))
	w := httptest.NewRecorder()

	CreateAd(stub)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.gotCampaign)
}

func TestWriteApiResponseMapeiaCategoriaParaStatus(t *testing.T) {
	tests := []struct {
		name     string
		category domain.ErrorCategory
		want     int
	}{
		{"Erro de autenticação vira 401", domain.ErrorAuth, http.StatusUnauthorized},
		{"Rate limit vira 429", domain.ErrorRateLimit, http.StatusTooManyRequests},
		{"Validação vira 400", domain.ErrorValidation, http.StatusBadRequest},
		{"Não encontrado vira 404", domain.ErrorNotFound, http.StatusNotFound},
		{"Erro de rede vira 502", domain.ErrorNetwork, http.StatusBadGateway},
		{"Erro do provedor vira 502", domain.ErrorServer, http.StatusBadGateway},
		{"Timeout vira 504", domain.ErrorTimeout, http.StatusGatewayTimeout},
		{"Desconhecido vira 500", domain.ErrorUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &advertiserStub{response: domain.Fail(&domain.ApiErrorDetail{
				Code:     "META_X",
				Category: tt.category,
			})}

			r := httptest.NewRequest(http.MethodDelete, "/v1/ads/meta/ad-1", nil)
			r = withParams(r, adParams("meta", "ad-1"))
			w := httptest.NewRecorder()

			DeleteAd(stub)(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateAdSemID(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodPut, "/v1/ads/meta/", strings.NewReader(`{}`))
	r = withParams(r, adParams("meta", ""))
	w := httptest.NewRecorder()

	UpdateAd(stub)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.gotAdID)
}

func TestGetAdStatus(t *testing.T) {
	stub := &advertiserStub{response: domain.OK(domain.StatusActive)}

	r := httptest.NewRequest(http.MethodGet, "/v1/ads/tiktok/ad-9/status", nil)
	r = withParams(r, adParams("tiktok", "ad-9"))
	w := httptest.NewRecorder()

	GetAdStatus(stub)(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PlatformTikTok, stub.gotPlatform)
	assert.Equal(t, "ad-9", stub.gotAdID)
}

func TestGetAdPerformanceMetricasDaQuery(t *testing.T) {
	stub := &advertiserStub{response: domain.OK(&domain.PerformanceReport{AdID: "ad-1"})}

	r := httptest.NewRequest(http.MethodGet, "/v1/ads/meta/ad-1/performance?metrics=impressions,%20spend,", nil)
	r = withParams(r, adParams("meta", "ad-1"))
	w := httptest.NewRecorder()

	GetAdPerformance(stub)(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"impressions", "spend"}, stub.gotMetrics)
}

func TestGetAdPerformanceMetricasPadrao(t *testing.T) {
	stub := &advertiserStub{response: domain.OK(&domain.PerformanceReport{AdID: "ad-1"})}

	r := httptest.NewRequest(http.MethodGet, "/v1/ads/meta/ad-1/performance", nil)
	r = withParams(r, adParams("meta", "ad-1"))
	w := httptest.NewRecorder()

	GetAdPerformance(stub)(w, r)

	assert.Equal(t, []string{"impressions", "clicks", "spend", "conversions"}, stub.gotMetrics)
}

func TestCreateMultiPlatformAd(t *testing.T) {
	stub := &advertiserStub{multiResults: map[domain.Platform]*domain.ApiResponse{
		domain.PlatformMeta: domain.OK(&domain.AdIdentifiers{ID: "ad-meta"}),
		domain.PlatformX: domain.Fail(&domain.ApiErrorDetail{
			Code:     "X_88",
			Category: domain.ErrorRateLimit,
			Platform: domain.PlatformX,
		}),
	}}

	body := `{"platforms":["meta","x"],"campaign":{"name":"Vaga"}}`
	r := httptest.NewRequest(http.MethodPost, "/v1/ads/multi", strings.NewReader(body))
	w := httptest.NewRecorder()

	CreateMultiPlatformAd(stub)(w, r)

	// Sucesso parcial continua 200; a falha fica no resultado da plataforma
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Platform{domain.PlatformMeta, domain.PlatformX}, stub.gotPlatforms)

	var results map[domain.Platform]*domain.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.True(t, results[domain.PlatformMeta].Success)
	assert.False(t, results[domain.PlatformX].Success)
	assert.Equal(t, "X_88", results[domain.PlatformX].Error.Code)
}

func TestCreateMultiPlatformAdValidaEntrada(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodPost, "/v1/ads/multi", strings.NewReader(`{"platforms":[]}`))
	w := httptest.NewRecorder()
	CreateMultiPlatformAd(stub)(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/v1/ads/multi", strings.NewReader(`{"platforms":["orkut"]}`))
	w = httptest.NewRecorder()
	CreateMultiPlatformAd(stub)(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.gotPlatforms)
}

func TestGetMultiPlatformPerformance(t *testing.T) {
	stub := &advertiserStub{multiResults: map[domain.Platform]*domain.ApiResponse{
		domain.PlatformMeta: domain.OK(&domain.PerformanceReport{AdID: "ad-meta"}),
	}}

	body := `{"ad_ids":{"meta":"ad-meta"},"metrics":["spend"]}`
	r := httptest.NewRequest(http.MethodPost, "/v1/ads/multi/performance", strings.NewReader(body))
	w := httptest.NewRecorder()

	GetMultiPlatformPerformance(stub)(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[domain.Platform]string{domain.PlatformMeta: "ad-meta"}, stub.gotAdIDs)
	assert.Equal(t, []string{"spend"}, stub.gotMetrics)
}

func TestGetMultiPlatformPerformanceSemAnuncios(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodPost, "/v1/ads/multi/performance", strings.NewReader(`{"ad_ids":{}}`))
	w := httptest.NewRecorder()

	GetMultiPlatformPerformance(stub)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlatforms(t *testing.T) {
	stub := &advertiserStub{}

	r := httptest.NewRequest(http.MethodGet, "/v1/platforms", nil)
	w := httptest.NewRecorder()

	ListPlatforms(stub)(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Platforms []domain.Platform `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, []domain.Platform{domain.PlatformMeta, domain.PlatformTikTok}, payload.Platforms)
}
