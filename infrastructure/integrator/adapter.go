package integrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/transport"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
	"github.com/vfg2006/ad-gateway-api/pkg/utils"
)

// Métricas derivadas calculadas quando os componentes da razão estão
// presentes na resposta da plataforma
const (
	metricSpend             = "spend"
	metricClicks            = "clicks"
	metricConversions       = "conversions"
	metricCostPerClick      = "cost_per_click"
	metricCostPerConversion = "cost_per_conversion"
)

// Adapter é o adaptador genérico multi-etapa: um único fluxo de trabalho
// parametrizado pela Strategy de cada plataforma. Todas as chamadas passam
// pelo cliente de transporte e, por consequência, pelo pipeline de
// middlewares.
type Adapter struct {
	strategy *Strategy
	client   transport.Requester
	authMgr  *auth.Manager
	creds    domain.Credentials
	emitter  events.Emitter
	logger   log.Logger
	now      func() time.Time
}

// AdapterOption configura o adaptador na construção
type AdapterOption func(*Adapter)

// WithAdapterClock injeta um relógio determinístico (testes)
func WithAdapterClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		a.now = now
	}
}

// NewAdapter monta o adaptador de uma plataforma com sua estratégia,
// transporte, gerenciador de autenticação e credenciais do chamador
func NewAdapter(
	strategy *Strategy,
	client transport.Requester,
	authMgr *auth.Manager,
	creds domain.Credentials,
	emitter events.Emitter,
	logger log.Logger,
	opts ...AdapterOption,
) *Adapter {
	a := &Adapter{
		strategy: strategy,
		client:   client,
		authMgr:  authMgr,
		creds:    creds,
		emitter:  emitter,
		logger:   logger,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Platform identifica a plataforma atendida pelo adaptador
func (a *Adapter) Platform() domain.Platform {
	return a.strategy.Platform
}

// Initialize autentica a plataforma com as credenciais do adaptador
func (a *Adapter) Initialize(ctx context.Context) error {
	_, err := a.authMgr.Authenticate(ctx, a.creds)
	return err
}

// ensureAuthenticated garante autenticação válida, inicializando quando
// necessário, e devolve o token corrente
func (a *Adapter) ensureAuthenticated(ctx context.Context) (string, *domain.ApiErrorDetail) {
	if !a.authMgr.IsAuthenticated(ctx, a.strategy.Platform) {
		if err := a.Initialize(ctx); err != nil {
			return "", a.toDetail(err)
		}
	}

	token, err := a.authMgr.Token(ctx, a.strategy.Platform)
	if err != nil {
		return "", a.toDetail(err)
	}

	return token, nil
}

// CreateAd cria o grafo completo de recursos da plataforma a partir da
// campanha genérica: campanha → conjunto → criativo → anúncio. Se alguma
// etapa devolve resultado sem o ID esperado, a operação falha com os IDs
// parciais no erro. Não há limpeza automática dos recursos já criados.
func (a *Adapter) CreateAd(ctx context.Context, campaign *domain.AdCampaign) *domain.ApiResponse {
	token, detail := a.ensureAuthenticated(ctx)
	if detail != nil {
		return domain.Fail(detail)
	}

	if a.strategy.Validate != nil {
		if err := a.strategy.Validate(a.creds); err != nil {
			return domain.Fail(&domain.ApiErrorDetail{
				Code:     a.code("PREREQUISITES"),
				Category: domain.ErrorValidation,
				Message:  err.Error(),
				Platform: a.strategy.Platform,
			})
		}
	}

	sc := &StepContext{
		Campaign: campaign,
		Creds:    a.creds,
		IDs:      make(map[string]string, len(a.strategy.Steps)),
	}
	headers := a.strategy.AuthHeaders(token, a.creds)

	for _, step := range a.strategy.Steps {
		req := step.Build(sc)

		body, err := a.client.Request(ctx, req.Method, req.Endpoint, req.Body, &transport.RequestOptions{
			Headers: headers,
			Query:   req.Query,
		})
		if err != nil {
			detail := a.toDetail(err)
			detail.PartialIDs = copyIDs(sc.IDs)
			return domain.Fail(detail)
		}

		id := step.ExtractID(body)
		if id == "" {
			return domain.Fail(&domain.ApiErrorDetail{
				Code:       a.code("MISSING_" + strings.ToUpper(step.Level) + "_ID"),
				Category:   domain.ErrorUnknown,
				Message:    fmt.Sprintf("A plataforma respondeu sem o ID esperado na etapa %s", step.Level),
				Platform:   a.strategy.Platform,
				PartialIDs: copyIDs(sc.IDs),
			})
		}

		sc.IDs[step.Level] = id

		a.logger.WithFields(log.Fields{
			"platform": a.strategy.Platform.String(),
			"level":    step.Level,
			"id":       id,
		}).Debug("Etapa de criação concluída")
	}

	a.emitter.Emit(events.Event{
		Type:      events.EventAdCreated,
		Platform:  a.strategy.Platform,
		Timestamp: a.now(),
		Payload: map[string]interface{}{
			"campaign_name": campaign.Name,
			"ad_id":         sc.IDs[LevelAd],
		},
	})

	resp := domain.OK(&domain.AdIdentifiers{
		ID:         sc.IDs[LevelAd],
		CampaignID: sc.IDs[LevelCampaign],
		AdSetID:    sc.IDs[LevelAdSet],
		CreativeID: sc.IDs[LevelCreative],
		Status:     domain.StatusPending,
	})
	resp.Meta = &domain.ResponseMeta{RateLimit: a.client.RateLimitSnapshot()}
	return resp
}

// UpdateAd aplica a campanha atualizada no nível certo do grafo remoto
func (a *Adapter) UpdateAd(ctx context.Context, adID string, campaign *domain.AdCampaign) *domain.ApiResponse {
	token, detail := a.ensureAuthenticated(ctx)
	if detail != nil {
		return domain.Fail(detail)
	}

	req := a.strategy.Update(campaign, adID, a.creds)
	_, err := a.client.Request(ctx, req.Method, req.Endpoint, req.Body, &transport.RequestOptions{
		Headers: a.strategy.AuthHeaders(token, a.creds),
		Query:   req.Query,
	})
	if err != nil {
		return domain.Fail(a.toDetail(err))
	}

	a.emitter.Emit(events.Event{
		Type:      events.EventAdUpdated,
		Platform:  a.strategy.Platform,
		Timestamp: a.now(),
		Payload:   map[string]interface{}{"ad_id": adID},
	})

	return domain.OK(map[string]interface{}{
		"id":     adID,
		"status": string(domain.StatusPending),
	})
}

// DeleteAd remove o anúncio. Na maioria das plataformas é uma transição de
// status para um estado terminal, não uma remoção física.
func (a *Adapter) DeleteAd(ctx context.Context, adID string) *domain.ApiResponse {
	token, detail := a.ensureAuthenticated(ctx)
	if detail != nil {
		return domain.Fail(detail)
	}

	req := a.strategy.Delete(adID, a.creds)
	_, err := a.client.Request(ctx, req.Method, req.Endpoint, req.Body, &transport.RequestOptions{
		Headers: a.strategy.AuthHeaders(token, a.creds),
		Query:   req.Query,
	})
	if err != nil {
		return domain.Fail(a.toDetail(err))
	}

	a.emitter.Emit(events.Event{
		Type:      events.EventAdDeleted,
		Platform:  a.strategy.Platform,
		Timestamp: a.now(),
		Payload:   map[string]interface{}{"ad_id": adID},
	})

	return domain.OK(map[string]interface{}{"id": adID, "deleted": true})
}

// GetAdStatus consulta o status remoto e o traduz para o enum comum
func (a *Adapter) GetAdStatus(ctx context.Context, adID string) *domain.ApiResponse {
	token, detail := a.ensureAuthenticated(ctx)
	if detail != nil {
		return domain.Fail(detail)
	}

	req := a.strategy.Status(adID, a.creds)
	body, err := a.client.Request(ctx, req.Method, req.Endpoint, req.Body, &transport.RequestOptions{
		Headers: a.strategy.AuthHeaders(token, a.creds),
		Query:   req.Query,
	})
	if err != nil {
		return domain.Fail(a.toDetail(err))
	}

	status := a.strategy.ParseStatus(body)
	if !status.IsValid() {
		status = domain.StatusError
	}

	return domain.OK(map[string]interface{}{
		"id":     adID,
		"status": string(status),
	})
}

// GetAdPerformance consulta o endpoint de insights da plataforma sobre a
// janela fixa de lookback, traduz os nomes de métrica nos dois sentidos e
// deriva custo por clique e custo por conversão quando os componentes da
// razão estão presentes
func (a *Adapter) GetAdPerformance(ctx context.Context, adID string, metrics []string) *domain.ApiResponse {
	token, detail := a.ensureAuthenticated(ctx)
	if detail != nil {
		return domain.Fail(detail)
	}

	platformMetrics := make([]string, 0, len(metrics))
	for _, name := range metrics {
		mapped, ok := a.strategy.Metrics[name]
		if !ok {
			a.logger.WithFields(log.Fields{
				"platform": a.strategy.Platform.String(),
				"metric":   name,
			}).Warn("Métrica sem mapeamento para a plataforma, ignorando")
			continue
		}
		platformMetrics = append(platformMetrics, mapped)
	}

	end := a.now()
	start := end.AddDate(0, 0, -a.strategy.LookbackDays)

	req := a.strategy.Performance(adID, platformMetrics, start, end, a.creds)
	body, err := a.client.Request(ctx, req.Method, req.Endpoint, req.Body, &transport.RequestOptions{
		Headers: a.strategy.AuthHeaders(token, a.creds),
		Query:   req.Query,
	})
	if err != nil {
		return domain.Fail(a.toDetail(err))
	}

	raw := a.strategy.ParseMetrics(body)

	// Traduz de volta para os nomes genéricos solicitados
	result := make(map[string]float64, len(raw))
	for generic, platformName := range a.strategy.Metrics {
		if value, ok := raw[platformName]; ok {
			result[generic] = value
		}
	}

	deriveComputedMetrics(result)

	return domain.OK(&domain.PerformanceReport{
		AdID:      adID,
		Platform:  a.strategy.Platform,
		StartDate: start.Format(time.DateOnly),
		EndDate:   end.Format(time.DateOnly),
		Metrics:   result,
	})
}

// deriveComputedMetrics preenche as métricas derivadas quando numerador e
// denominador estão disponíveis
func deriveComputedMetrics(metrics map[string]float64) {
	spend, hasSpend := metrics[metricSpend]
	if !hasSpend {
		return
	}

	if clicks, ok := metrics[metricClicks]; ok && clicks > 0 {
		if _, present := metrics[metricCostPerClick]; !present {
			metrics[metricCostPerClick] = utils.RoundWithTwoDecimalPlace(spend / clicks)
		}
	}

	if conversions, ok := metrics[metricConversions]; ok && conversions > 0 {
		if _, present := metrics[metricCostPerConversion]; !present {
			metrics[metricCostPerConversion] = utils.RoundWithTwoDecimalPlace(spend / conversions)
		}
	}
}

// toDetail converte qualquer erro interno no detalhe tipado exposto ao
// chamador; exceções cruas de transporte nunca escapam
func (a *Adapter) toDetail(err error) *domain.ApiErrorDetail {
	var detail *domain.ApiErrorDetail
	if errors.As(err, &detail) {
		return detail
	}

	if errors.Is(err, auth.ErrNotAuthenticated) {
		return &domain.ApiErrorDetail{
			Code:      a.code("NOT_AUTHENTICATED"),
			Category:  domain.ErrorAuth,
			Message:   "Plataforma não autenticada",
			Platform:  a.strategy.Platform,
			AuthError: true,
			Action:    "Autentique a plataforma antes de operar",
		}
	}

	return &domain.ApiErrorDetail{
		Code:     a.code("INTERNAL"),
		Category: domain.ErrorUnknown,
		Message:  err.Error(),
		Platform: a.strategy.Platform,
	}
}

func (a *Adapter) code(suffix string) string {
	return strings.ToUpper(a.strategy.Platform.String()) + "_" + suffix
}

func copyIDs(ids map[string]string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	clone := make(map[string]string, len(ids))
	for k, v := range ids {
		clone[k] = v
	}
	return clone
}
