package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

// DefaultRefreshThreshold é a antecedência padrão do refresh agendado em
// relação à expiração do token
const DefaultRefreshThreshold = 300 * time.Second

// ErrNotAuthenticated indica leitura de token de uma plataforma sem
// autenticação válida. Não existe token simulado: a leitura não autenticada
// é sempre um erro tipado.
var ErrNotAuthenticated = errors.New("plataforma não autenticada")

// RefreshNotSupported monta o erro fixo das plataformas sem conceito de
// refresh (OAuth1)
func RefreshNotSupported(platform domain.Platform) *domain.ApiErrorDetail {
	return &domain.ApiErrorDetail{
		Code:     "REFRESH_NOT_SUPPORTED",
		Category: domain.ErrorValidation,
		Message:  "A plataforma usa OAuth1 e não possui refresh de token",
		Platform: platform,
		Action:   "Gere um novo par token/secret manualmente se necessário",
	}
}

// Flow são as operações específicas de autenticação de uma plataforma,
// fornecidas pelo pacote de estratégia correspondente. Refresh nulo indica
// que a plataforma não suporta renovação.
type Flow struct {
	Authenticate func(ctx context.Context, creds domain.Credentials) (token string, expiresAt *time.Time, err error)
	Refresh      func(ctx context.Context, creds domain.Credentials, currentToken string) (token string, expiresAt *time.Time, err error)
}

// Manager gerencia o ciclo de vida de credenciais e tokens por plataforma:
// autenticação, expiração preguiçosa na leitura, refresh agendado e logout.
// As mutações de uma mesma plataforma são serializadas.
type Manager struct {
	store     Store
	flows     map[domain.Platform]Flow
	creds     map[domain.Platform]domain.Credentials
	threshold time.Duration
	scheduler *gocron.Scheduler
	jobs      map[domain.Platform]*gocron.Job
	locks     map[domain.Platform]*sync.Mutex
	// mu protege os mapas compartilhados entre plataformas (locks, creds,
	// jobs); o mutex por plataforma serializa o ciclo de vida de cada uma
	mu sync.Mutex
	emitter   events.Emitter
	logger    log.Logger
	now       func() time.Time
}

// ManagerOption configura o gerenciador na construção
type ManagerOption func(*Manager)

// WithRefreshThreshold ajusta a antecedência do refresh agendado
func WithRefreshThreshold(threshold time.Duration) ManagerOption {
	return func(m *Manager) {
		m.threshold = threshold
	}
}

// WithNow injeta um relógio determinístico (testes)
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager cria o gerenciador de autenticação com o store e os fluxos
// por plataforma. O scheduler interno inicia imediatamente em background.
func NewManager(store Store, flows map[domain.Platform]Flow, emitter events.Emitter, logger log.Logger, opts ...ManagerOption) *Manager {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.StartAsync()

	m := &Manager{
		store:     store,
		flows:     flows,
		creds:     make(map[domain.Platform]domain.Credentials),
		threshold: DefaultRefreshThreshold,
		scheduler: scheduler,
		jobs:      make(map[domain.Platform]*gocron.Job),
		locks:     make(map[domain.Platform]*sync.Mutex),
		emitter:   emitter,
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Shutdown para o scheduler de refresh
func (m *Manager) Shutdown() {
	m.scheduler.Stop()
}

// platformLock devolve o mutex que serializa as mutações da plataforma
func (m *Manager) platformLock(platform domain.Platform) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[platform]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[platform] = lock
	}
	return lock
}

// Authenticate executa o fluxo de autenticação da plataforma, persiste o
// token e o estado, e agenda o refresh quando há expiração
func (m *Manager) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthState, error) {
	platform := creds.CredentialPlatform()

	lock := m.platformLock(platform)
	lock.Lock()
	defer lock.Unlock()

	flow, ok := m.flows[platform]
	if !ok || flow.Authenticate == nil {
		return nil, errors.Errorf("nenhum fluxo de autenticação registrado para %s", platform)
	}

	token, expiresAt, err := flow.Authenticate(ctx, creds)
	if err != nil {
		m.emitAuthResult(platform, false)
		return nil, errors.Wrapf(err, "erro ao autenticar na plataforma %s", platform)
	}

	state := &domain.AuthState{
		Platform:        platform,
		IsAuthenticated: true,
		ExpiresAt:       expiresAt,
		LastRefreshed:   m.now(),
	}

	if err := m.store.Save(ctx, platform, token, state); err != nil {
		return nil, errors.Wrap(err, "erro ao persistir token")
	}

	m.setCredentials(platform, creds)
	m.scheduleRefreshLocked(platform, expiresAt)
	m.emitAuthResult(platform, true)

	m.logger.WithFields(log.Fields{
		"platform":   platform.String(),
		"expires_at": formatExpiry(expiresAt),
	}).Info("Plataforma autenticada com sucesso")

	return state, nil
}

// IsAuthenticated verifica o estado da plataforma, expirando-o
// preguiçosamente quando ExpiresAt já passou, e a mudança é persistida
func (m *Manager) IsAuthenticated(ctx context.Context, platform domain.Platform) bool {
	token, state, err := m.store.Load(ctx, platform)
	if err != nil || state == nil {
		return false
	}

	if state.IsAuthenticated && state.Expired(m.now()) {
		state.IsAuthenticated = false
		if err := m.store.Save(ctx, platform, token, state); err != nil {
			m.logger.WithError(err).WithField("platform", platform.String()).
				Warn("Erro ao persistir expiração preguiçosa do estado")
		}
	}

	return state.IsAuthenticated
}

// Token devolve o token válido da plataforma ou ErrNotAuthenticated
func (m *Manager) Token(ctx context.Context, platform domain.Platform) (string, error) {
	token, state, err := m.store.Load(ctx, platform)
	if err != nil {
		return "", ErrNotAuthenticated
	}

	if !state.IsAuthenticated || state.Expired(m.now()) {
		return "", ErrNotAuthenticated
	}

	return token, nil
}

// State devolve o estado de autenticação corrente da plataforma
func (m *Manager) State(ctx context.Context, platform domain.Platform) (*domain.AuthState, error) {
	_, state, err := m.store.Load(ctx, platform)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	if state.IsAuthenticated && state.Expired(m.now()) {
		state.IsAuthenticated = false
	}

	return state, nil
}

// Refresh renova o token via fluxo específico da plataforma. Plataformas
// OAuth1 devolvem o erro fixo REFRESH_NOT_SUPPORTED.
func (m *Manager) Refresh(ctx context.Context, platform domain.Platform) (*domain.AuthState, error) {
	lock := m.platformLock(platform)
	lock.Lock()
	defer lock.Unlock()

	flow, ok := m.flows[platform]
	if !ok {
		return nil, errors.Errorf("nenhum fluxo de autenticação registrado para %s", platform)
	}
	if flow.Refresh == nil {
		return nil, RefreshNotSupported(platform)
	}

	creds, ok := m.credentials(platform)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	currentToken, _, err := m.store.Load(ctx, platform)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	token, expiresAt, err := flow.Refresh(ctx, creds, currentToken)
	if err != nil {
		m.emitAuthResult(platform, false)
		return nil, errors.Wrapf(err, "erro ao renovar token da plataforma %s", platform)
	}

	state := &domain.AuthState{
		Platform:        platform,
		IsAuthenticated: true,
		ExpiresAt:       expiresAt,
		LastRefreshed:   m.now(),
	}

	if err := m.store.Save(ctx, platform, token, state); err != nil {
		return nil, errors.Wrap(err, "erro ao persistir token renovado")
	}

	m.scheduleRefreshLocked(platform, expiresAt)
	m.emitAuthResult(platform, true)

	m.logger.WithFields(log.Fields{
		"platform":   platform.String(),
		"expires_at": formatExpiry(expiresAt),
	}).Info("Token da plataforma renovado com sucesso")

	return state, nil
}

// Logout cancela o timer de refresh pendente de forma síncrona e então
// limpa o estado e o token armazenados
func (m *Manager) Logout(ctx context.Context, platform domain.Platform) error {
	lock := m.platformLock(platform)
	lock.Lock()
	defer lock.Unlock()

	m.cancelRefreshLocked(platform)
	m.dropCredentials(platform)

	if err := m.store.Delete(ctx, platform); err != nil {
		return errors.Wrapf(err, "erro ao limpar token da plataforma %s", platform)
	}

	m.logger.WithField("platform", platform.String()).Info("Logout da plataforma concluído")
	return nil
}

// scheduleRefreshLocked (re)agenda o refresh para expiresAt − threshold.
// Se esse instante já passou, o refresh dispara imediatamente. Chamar com
// o lock da plataforma já adquirido.
func (m *Manager) scheduleRefreshLocked(platform domain.Platform, expiresAt *time.Time) {
	m.cancelRefreshLocked(platform)

	if expiresAt == nil {
		return
	}

	fireAt := expiresAt.Add(-m.threshold)
	if !fireAt.After(m.now()) {
		go m.runScheduledRefresh(platform)
		return
	}

	job, err := m.scheduler.Every(1).Day().StartAt(fireAt).LimitRunsTo(1).
		Tag(platform.String()).
		Do(func() { m.runScheduledRefresh(platform) })
	if err != nil {
		m.logger.WithError(err).WithField("platform", platform.String()).
			Error("Erro ao agendar refresh de token")
		return
	}

	m.mu.Lock()
	m.jobs[platform] = job
	m.mu.Unlock()
}

func (m *Manager) cancelRefreshLocked(platform domain.Platform) {
	m.mu.Lock()
	job := m.jobs[platform]
	delete(m.jobs, platform)
	m.mu.Unlock()

	if job != nil {
		m.scheduler.RemoveByReference(job)
	}
}

func (m *Manager) setCredentials(platform domain.Platform, creds domain.Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[platform] = creds
}

func (m *Manager) credentials(platform domain.Platform) (domain.Credentials, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, ok := m.creds[platform]
	return creds, ok
}

func (m *Manager) dropCredentials(platform domain.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, platform)
}

func (m *Manager) runScheduledRefresh(platform domain.Platform) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := m.Refresh(ctx, platform); err != nil {
		m.logger.WithError(err).WithField("platform", platform.String()).
			Error("Erro no refresh agendado do token")
	}
}

func (m *Manager) emitAuthResult(platform domain.Platform, success bool) {
	m.emitter.Emit(events.Event{
		Type:      events.EventAuthResult,
		Platform:  platform,
		Timestamp: m.now(),
		Payload: map[string]interface{}{
			"success": success,
		},
	})
}

func formatExpiry(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "sem expiração"
	}
	return expiresAt.Format(time.RFC3339)
}
