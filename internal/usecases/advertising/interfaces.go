package advertising

import (
	"context"

	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// AdOperations define o contrato de um adaptador de plataforma: o conjunto
// de operações que toda plataforma integrada precisa atender
type AdOperations interface {
	// Platform identifica a plataforma atendida pelo adaptador
	Platform() domain.Platform

	// Initialize autentica a plataforma antes da primeira operação
	Initialize(ctx context.Context) error

	// CreateAd cria o grafo completo de recursos da campanha na plataforma
	CreateAd(ctx context.Context, campaign *domain.AdCampaign) *domain.ApiResponse

	// UpdateAd aplica a campanha atualizada no anúncio existente
	UpdateAd(ctx context.Context, adID string, campaign *domain.AdCampaign) *domain.ApiResponse

	// DeleteAd remove (ou encerra) o anúncio na plataforma
	DeleteAd(ctx context.Context, adID string) *domain.ApiResponse

	// GetAdStatus consulta o status remoto traduzido para o enum comum
	GetAdStatus(ctx context.Context, adID string) *domain.ApiResponse

	// GetAdPerformance consulta as métricas de desempenho do anúncio
	GetAdPerformance(ctx context.Context, adID string, metrics []string) *domain.ApiResponse
}

// Advertiser é a fachada única do gateway: roteia operações para a
// plataforma certa e orquestra operações multi-plataforma
type Advertiser interface {
	// Platforms lista as plataformas com adaptador registrado
	Platforms() []domain.Platform

	// CreateAd cria a campanha na plataforma indicada
	CreateAd(ctx context.Context, platform domain.Platform, campaign *domain.AdCampaign) *domain.ApiResponse

	// UpdateAd atualiza o anúncio na plataforma indicada
	UpdateAd(ctx context.Context, platform domain.Platform, adID string, campaign *domain.AdCampaign) *domain.ApiResponse

	// DeleteAd remove o anúncio na plataforma indicada
	DeleteAd(ctx context.Context, platform domain.Platform, adID string) *domain.ApiResponse

	// GetAdStatus consulta o status do anúncio na plataforma indicada
	GetAdStatus(ctx context.Context, platform domain.Platform, adID string) *domain.ApiResponse

	// GetAdPerformance consulta as métricas do anúncio na plataforma indicada
	GetAdPerformance(ctx context.Context, platform domain.Platform, adID string, metrics []string) *domain.ApiResponse

	// CreateMultiPlatformAd cria a mesma campanha em várias plataformas de
	// forma concorrente, com resultado independente por plataforma
	CreateMultiPlatformAd(ctx context.Context, platforms []domain.Platform, campaign *domain.AdCampaign) map[domain.Platform]*domain.ApiResponse

	// GetMultiPlatformPerformance consulta as métricas do mesmo anúncio
	// lógico em várias plataformas de forma concorrente
	GetMultiPlatformPerformance(ctx context.Context, adIDs map[domain.Platform]string, metrics []string) map[domain.Platform]*domain.ApiResponse
}
