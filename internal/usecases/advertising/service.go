package advertising

import (
	"context"
	"sort"
	"sync"

	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

// Service implementa a fachada Advertiser sobre o registro de adaptadores
// de plataforma
type Service struct {
	adapters map[domain.Platform]AdOperations
	logger   log.Logger
}

// NewService monta a fachada com os adaptadores disponíveis. Plataformas
// sem credenciais configuradas simplesmente não entram no registro.
func NewService(logger log.Logger, adapters ...AdOperations) Advertiser {
	registry := make(map[domain.Platform]AdOperations, len(adapters))
	for _, adapter := range adapters {
		registry[adapter.Platform()] = adapter
	}

	return &Service{
		adapters: registry,
		logger:   logger,
	}
}

// Platforms lista as plataformas registradas em ordem estável
func (s *Service) Platforms() []domain.Platform {
	platforms := make([]domain.Platform, 0, len(s.adapters))
	for platform := range s.adapters {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i] < platforms[j]
	})
	return platforms
}

// resolve devolve o adaptador da plataforma ou o erro de configuração
// quando ela não foi registrada
func (s *Service) resolve(platform domain.Platform) (AdOperations, *domain.ApiErrorDetail) {
	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, &domain.ApiErrorDetail{
			Code:     "PLATFORM_NOT_CONFIGURED",
			Category: domain.ErrorValidation,
			Message:  "Plataforma sem adaptador configurado: " + platform.String(),
			Platform: platform,
			Action:   "Configure as credenciais da plataforma no gateway",
		}
	}
	return adapter, nil
}

// CreateAd valida a campanha na borda e delega ao adaptador da plataforma
func (s *Service) CreateAd(ctx context.Context, platform domain.Platform, campaign *domain.AdCampaign) *domain.ApiResponse {
	adapter, detail := s.resolve(platform)
	if detail != nil {
		return domain.Fail(detail)
	}

	if err := campaign.Validate(); err != nil {
		return domain.Fail(&domain.ApiErrorDetail{
			Code:     "INVALID_CAMPAIGN",
			Category: domain.ErrorValidation,
			Message:  err.Error(),
			Platform: platform,
		})
	}

	return adapter.CreateAd(ctx, campaign)
}

// UpdateAd valida a campanha na borda e delega ao adaptador da plataforma
func (s *Service) UpdateAd(ctx context.Context, platform domain.Platform, adID string, campaign *domain.AdCampaign) *domain.ApiResponse {
	adapter, detail := s.resolve(platform)
	if detail != nil {
		return domain.Fail(detail)
	}

	if err := campaign.Validate(); err != nil {
		return domain.Fail(&domain.ApiErrorDetail{
			Code:     "INVALID_CAMPAIGN",
			Category: domain.ErrorValidation,
			Message:  err.Error(),
			Platform: platform,
		})
	}

	return adapter.UpdateAd(ctx, adID, campaign)
}

// DeleteAd delega a remoção ao adaptador da plataforma
func (s *Service) DeleteAd(ctx context.Context, platform domain.Platform, adID string) *domain.ApiResponse {
	adapter, detail := s.resolve(platform)
	if detail != nil {
		return domain.Fail(detail)
	}
	return adapter.DeleteAd(ctx, adID)
}

// GetAdStatus delega a consulta de status ao adaptador da plataforma
func (s *Service) GetAdStatus(ctx context.Context, platform domain.Platform, adID string) *domain.ApiResponse {
	adapter, detail := s.resolve(platform)
	if detail != nil {
		return domain.Fail(detail)
	}
	return adapter.GetAdStatus(ctx, adID)
}

// GetAdPerformance delega a consulta de métricas ao adaptador da plataforma
func (s *Service) GetAdPerformance(ctx context.Context, platform domain.Platform, adID string, metrics []string) *domain.ApiResponse {
	adapter, detail := s.resolve(platform)
	if detail != nil {
		return domain.Fail(detail)
	}
	return adapter.GetAdPerformance(ctx, adID, metrics)
}

// CreateMultiPlatformAd cria a mesma campanha em todas as plataformas
// solicitadas de forma concorrente. O resultado de cada plataforma é
// independente: a falha em uma não interrompe nem invalida as demais.
func (s *Service) CreateMultiPlatformAd(ctx context.Context, platforms []domain.Platform, campaign *domain.AdCampaign) map[domain.Platform]*domain.ApiResponse {
	if err := campaign.Validate(); err != nil {
		results := make(map[domain.Platform]*domain.ApiResponse, len(platforms))
		for _, platform := range platforms {
			results[platform] = domain.Fail(&domain.ApiErrorDetail{
				Code:     "INVALID_CAMPAIGN",
				Category: domain.ErrorValidation,
				Message:  err.Error(),
				Platform: platform,
			})
		}
		return results
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[domain.Platform]*domain.ApiResponse, len(platforms))
	)

	for _, platform := range platforms {
		wg.Add(1)
		go func(platform domain.Platform) {
			defer wg.Done()

			resp := s.CreateAd(ctx, platform, campaign)

			mu.Lock()
			results[platform] = resp
			mu.Unlock()

			if !resp.Success {
				s.logger.WithFields(log.Fields{
					"platform": platform.String(),
					"campaign": campaign.Name,
				}).Warn("Criação multi-plataforma falhou para a plataforma")
			}
		}(platform)
	}

	wg.Wait()
	return results
}

// GetMultiPlatformPerformance consulta as métricas em todas as plataformas
// informadas de forma concorrente, com resultado independente por plataforma
func (s *Service) GetMultiPlatformPerformance(ctx context.Context, adIDs map[domain.Platform]string, metrics []string) map[domain.Platform]*domain.ApiResponse {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[domain.Platform]*domain.ApiResponse, len(adIDs))
	)

	for platform, adID := range adIDs {
		wg.Add(1)
		go func(platform domain.Platform, adID string) {
			defer wg.Done()

			resp := s.GetAdPerformance(ctx, platform, adID, metrics)

			mu.Lock()
			results[platform] = resp
			mu.Unlock()
		}(platform, adID)
	}

	wg.Wait()
	return results
}
