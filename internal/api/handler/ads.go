package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/internal/usecases/advertising"
	"github.com/vfg2006/ad-gateway-api/pkg/apiErrors"
)

// MultiPlatformRequest é o corpo da criação multi-plataforma
type MultiPlatformRequest struct {
	Platforms []string          `json:"platforms"`
	Campaign  domain.AdCampaign `json:"campaign"`
}

// MultiPlatformPerformanceRequest é o corpo da consulta multi-plataforma
type MultiPlatformPerformanceRequest struct {
	AdIDs   map[string]string `json:"ad_ids"`
	Metrics []string          `json:"metrics"`
}

// categoryStatusMap traduz a categoria do erro de plataforma para o status
// HTTP devolvido pelo gateway
var categoryStatusMap = map[domain.ErrorCategory]int{
	domain.ErrorNetwork:    http.StatusBadGateway,
	domain.ErrorAuth:       http.StatusUnauthorized,
	domain.ErrorRateLimit:  http.StatusTooManyRequests,
	domain.ErrorValidation: http.StatusBadRequest,
	domain.ErrorNotFound:   http.StatusNotFound,
	domain.ErrorServer:     http.StatusBadGateway,
	domain.ErrorTimeout:    http.StatusGatewayTimeout,
	domain.ErrorUnknown:    http.StatusInternalServerError,
}

// writeApiResponse serializa a resposta comum do gateway com o status HTTP
// derivado da categoria do erro
func writeApiResponse(w http.ResponseWriter, resp *domain.ApiResponse) {
	status := http.StatusOK
	if !resp.Success && resp.Error != nil {
		if mapped, ok := categoryStatusMap[resp.Error.Category]; ok {
			status = mapped
		} else {
			status = http.StatusInternalServerError
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.Error(err)
	}
}

// parsePlatformParam extrai e valida o parâmetro :platform da URL
func parsePlatformParam(r *http.Request) (domain.Platform, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("platform")
	platform, err := domain.ParsePlatform(raw)
	if err != nil {
		return "", false
	}
	return platform, true
}

// CreateAd cria um anúncio na plataforma indicada na URL
func CreateAd(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		var campaign domain.AdCampaign
		if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar campanha", nil)
			return
		}

		writeApiResponse(w, service.CreateAd(r.Context(), platform, &campaign))
	}
}

// UpdateAd atualiza um anúncio existente na plataforma
func UpdateAd(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		adID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do anúncio não fornecido", nil)
			return
		}

		var campaign domain.AdCampaign
		if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar campanha", nil)
			return
		}

		writeApiResponse(w, service.UpdateAd(r.Context(), platform, adID, &campaign))
	}
}

// DeleteAd remove um anúncio na plataforma
func DeleteAd(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		adID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do anúncio não fornecido", nil)
			return
		}

		writeApiResponse(w, service.DeleteAd(r.Context(), platform, adID))
	}
}

// GetAdStatus consulta o status de um anúncio na plataforma
func GetAdStatus(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		adID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do anúncio não fornecido", nil)
			return
		}

		writeApiResponse(w, service.GetAdStatus(r.Context(), platform, adID))
	}
}

// GetAdPerformance consulta as métricas de um anúncio; as métricas vêm na
// query string separadas por vírgula
func GetAdPerformance(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		adID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do anúncio não fornecido", nil)
			return
		}

		metrics := parseMetricsQuery(r.URL.Query().Get("metrics"))
		if len(metrics) == 0 {
			metrics = []string{"impressions", "clicks", "spend", "conversions"}
		}

		writeApiResponse(w, service.GetAdPerformance(r.Context(), platform, adID, metrics))
	}
}

func parseMetricsQuery(raw string) []string {
	if raw == "" {
		return nil
	}

	var metrics []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			metrics = append(metrics, trimmed)
		}
	}
	return metrics
}

// CreateMultiPlatformAd cria a mesma campanha em várias plataformas; a
// resposta carrega um resultado independente por plataforma
func CreateMultiPlatformAd(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MultiPlatformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if len(req.Platforms) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe ao menos uma plataforma", nil)
			return
		}

		platforms := make([]domain.Platform, 0, len(req.Platforms))
		for _, raw := range req.Platforms {
			platform, err := domain.ParsePlatform(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida: "+raw, nil)
				return
			}
			platforms = append(platforms, platform)
		}

		results := service.CreateMultiPlatformAd(r.Context(), platforms, &req.Campaign)

		w.Header().Set("Content-Type", "application/json")
		// Sempre 200: o sucesso parcial fica explícito por plataforma
		if err := json.NewEncoder(w).Encode(results); err != nil {
			logrus.Error(err)
		}
	}
}

// GetMultiPlatformPerformance consulta as métricas do mesmo anúncio lógico
// em várias plataformas
func GetMultiPlatformPerformance(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MultiPlatformPerformanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if len(req.AdIDs) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe ao menos um anúncio", nil)
			return
		}

		adIDs := make(map[domain.Platform]string, len(req.AdIDs))
		for raw, adID := range req.AdIDs {
			platform, err := domain.ParsePlatform(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida: "+raw, nil)
				return
			}
			adIDs[platform] = adID
		}

		results := service.GetMultiPlatformPerformance(r.Context(), adIDs, req.Metrics)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(results); err != nil {
			logrus.Error(err)
		}
	}
}

// ListPlatforms devolve as plataformas com adaptador registrado
func ListPlatforms(service advertising.Advertiser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"platforms": service.Platforms(),
		}); err != nil {
			logrus.Error(err)
		}
	}
}
