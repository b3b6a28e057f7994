package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

type nopEmitter struct{}

func (nopEmitter) Emit(events.Event) {}

func timePtr(t time.Time) *time.Time { return &t }

func newTestManager(t *testing.T, flows map[domain.Platform]Flow, now func() time.Time) *Manager {
	t.Helper()
	log.SetupTestLogger()

	manager := NewManager(NewMemoryStore(), flows, nopEmitter{}, log.L, WithNow(now))
	t.Cleanup(manager.Shutdown)
	return manager
}

func metaFlow(token string, expiresAt *time.Time) Flow {
	return Flow{
		Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
			return token, expiresAt, nil
		},
		Refresh: func(_ context.Context, _ domain.Credentials, current string) (string, *time.Time, error) {
			return current + "-renovado", expiresAt, nil
		},
	}
}

func TestManagerAuthenticateEToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: metaFlow("token-abc", &expiry),
	}, func() time.Time { return now })

	ctx := context.Background()
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}

	state, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, domain.PlatformMeta, state.Platform)
	require.NotNil(t, state.ExpiresAt)
	assert.Equal(t, expiry, *state.ExpiresAt)
	assert.Equal(t, now, state.LastRefreshed)

	assert.True(t, manager.IsAuthenticated(ctx, domain.PlatformMeta))

	token, err := manager.Token(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
}

func TestManagerTokenSemAutenticacao(t *testing.T) {
	manager := newTestManager(t, map[domain.Platform]Flow{}, time.Now)

	_, err := manager.Token(context.Background(), domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, manager.IsAuthenticated(context.Background(), domain.PlatformMeta))
}

func TestManagerExpiracaoPreguicosaNaLeitura(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: metaFlow("token-abc", &expiry),
	}, func() time.Time { return now })

	ctx := context.Background()
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}
	_, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)

	// O timer agendado não disparou, mas a leitura após a expiração já
	// reporta o estado como não autenticado
	now = expiry.Add(time.Second)

	assert.False(t, manager.IsAuthenticated(ctx, domain.PlatformMeta))

	_, err = manager.Token(ctx, domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	state, err := manager.State(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.False(t, state.IsAuthenticated)
}

func TestManagerRefreshSemSuporte(t *testing.T) {
	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformX: {
			Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
				// OAuth1: token sem expiração, sem refresh
				return "oauth1-token", nil, nil
			},
		},
	}, time.Now)

	ctx := context.Background()
	creds := domain.XCredentials{ConsumerKey: "k", ConsumerSecret: "s", AccessToken: "a", AccessSecret: "as", AccountID: "acc"}
	_, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)

	_, err = manager.Refresh(ctx, domain.PlatformX)
	require.Error(t, err)

	var detail *domain.ApiErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "REFRESH_NOT_SUPPORTED", detail.Code)
	assert.Equal(t, domain.ErrorValidation, detail.Category)

	// O token OAuth1 continua válido após a tentativa de refresh
	token, err := manager.Token(ctx, domain.PlatformX)
	require.NoError(t, err)
	assert.Equal(t, "oauth1-token", token)
}

func TestManagerRefreshRenovaOToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: metaFlow("token-abc", &expiry),
	}, func() time.Time { return now })

	ctx := context.Background()
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}
	_, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)

	state, err := manager.Refresh(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)

	token, err := manager.Token(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.Equal(t, "token-abc-renovado", token)
}

func TestManagerRefreshSemCredenciaisRegistradas(t *testing.T) {
	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: metaFlow("token-abc", nil),
	}, time.Now)

	_, err := manager.Refresh(context.Background(), domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestManagerRefreshAgendadoDisparaQuandoJaDentroDoLimiar(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Expira em 60s: o instante de refresh (expiresAt - 300s) já passou e o
	// refresh dispara imediatamente em background
	expiry := now.Add(60 * time.Second)

	var refreshes int32
	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: {
			Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
				return "token-abc", &expiry, nil
			},
			Refresh: func(context.Context, domain.Credentials, string) (string, *time.Time, error) {
				atomic.AddInt32(&refreshes, 1)
				// Sem expiração no token renovado para não reagendar
				return "token-novo", nil, nil
			},
		},
	}, func() time.Time { return now })

	ctx := context.Background()
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}
	_, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refreshes) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		token, err := manager.Token(ctx, domain.PlatformMeta)
		return err == nil && token == "token-novo"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManagerLogoutLimpaEstadoEToken(t *testing.T) {
	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta: metaFlow("token-abc", timePtr(time.Now().Add(time.Hour))),
	}, time.Now)

	ctx := context.Background()
	creds := domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"}
	_, err := manager.Authenticate(ctx, creds)
	require.NoError(t, err)

	require.NoError(t, manager.Logout(ctx, domain.PlatformMeta))

	assert.False(t, manager.IsAuthenticated(ctx, domain.PlatformMeta))
	_, err = manager.Token(ctx, domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Refresh após logout não encontra credenciais registradas
	_, err = manager.Refresh(ctx, domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestManagerAuthenticateConcorrenteEntrePlataformas(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(2 * time.Hour)

	manager := newTestManager(t, map[domain.Platform]Flow{
		domain.PlatformMeta:   metaFlow("token-meta", &expiry),
		domain.PlatformTikTok: metaFlow("token-tiktok", &expiry),
		domain.PlatformX: {
			Authenticate: func(context.Context, domain.Credentials) (string, *time.Time, error) {
				return "token-x", nil, nil
			},
		},
	}, func() time.Time { return now })

	ctx := context.Background()
	credentials := []domain.Credentials{
		domain.MetaCredentials{AppID: "1", AppSecret: "s", AccessToken: "t", AdAccountID: "act", PageID: "pg"},
		domain.TikTokCredentials{AccessToken: "t", AdvertiserID: "adv"},
		domain.XCredentials{ConsumerKey: "k", ConsumerSecret: "s", AccessToken: "a", AccessSecret: "as", AccountID: "acc"},
	}

	// Plataformas diferentes autenticam em paralelo, como no fan-out das
	// operações multiplataforma
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, creds := range credentials {
			wg.Add(1)
			go func(creds domain.Credentials) {
				defer wg.Done()
				_, err := manager.Authenticate(ctx, creds)
				assert.NoError(t, err)
			}(creds)
		}
	}
	wg.Wait()

	for _, creds := range credentials {
		assert.True(t, manager.IsAuthenticated(ctx, creds.CredentialPlatform()))
	}

	// Logout em paralelo exercita o cancelamento dos refreshes agendados
	for _, creds := range credentials {
		wg.Add(1)
		go func(platform domain.Platform) {
			defer wg.Done()
			assert.NoError(t, manager.Logout(ctx, platform))
		}(creds.CredentialPlatform())
	}
	wg.Wait()

	for _, creds := range credentials {
		assert.False(t, manager.IsAuthenticated(ctx, creds.CredentialPlatform()))
	}
}

func TestManagerAuthenticateSemFluxoRegistrado(t *testing.T) {
	manager := newTestManager(t, map[domain.Platform]Flow{}, time.Now)

	creds := domain.TikTokCredentials{AccessToken: "t", AdvertiserID: "adv"}
	_, err := manager.Authenticate(context.Background(), creds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nenhum fluxo de autenticação registrado")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _, err := store.Load(ctx, domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	state := &domain.AuthState{Platform: domain.PlatformMeta, IsAuthenticated: true}
	require.NoError(t, store.Save(ctx, domain.PlatformMeta, "token-abc", state))

	token, loaded, err := store.Load(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
	assert.True(t, loaded.IsAuthenticated)

	// O estado devolvido é uma cópia: mutações não vazam para o store
	loaded.IsAuthenticated = false
	_, reloaded, err := store.Load(ctx, domain.PlatformMeta)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAuthenticated)

	require.NoError(t, store.Delete(ctx, domain.PlatformMeta))
	_, _, err = store.Load(ctx, domain.PlatformMeta)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
