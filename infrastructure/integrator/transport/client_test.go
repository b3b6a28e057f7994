package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/pipeline"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

func testProfile(platform domain.Platform, baseURL string, maxRetries int) *Profile {
	return &Profile{
		Platform:   platform,
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

func testClient(t *testing.T, profile *Profile) (*Client, *[]time.Duration) {
	t.Helper()
	log.SetupTestLogger()

	sleeps := &[]time.Duration{}
	pl := pipeline.Default(log.L, events.NewLogEmitter(log.L))
	client := NewClient(profile, pl, log.L, WithClock(
		time.Now,
		func(d time.Duration) { *sleeps = append(*sleeps, d) },
	))
	return client, sleeps
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name        string
		attempt     int
		rateLimited bool
		want        time.Duration
	}{
		{"Primeira tentativa usa a base de 1s", 0, false, 1 * time.Second},
		{"Segunda tentativa dobra para 2s", 1, false, 2 * time.Second},
		{"Terceira tentativa dobra para 4s", 2, false, 4 * time.Second},
		{"Rate limit parte de 5s", 0, true, 5 * time.Second},
		{"Rate limit dobra para 10s", 1, true, 10 * time.Second},
		{"Rate limit dobra para 20s", 2, true, 20 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backoff(tt.attempt, tt.rateLimited))
		})
	}
}

func TestClientRepeteErroRetryableAteSucesso(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":"123"}`))
	}))
	defer server.Close()

	client, sleeps := testClient(t, testProfile(domain.PlatformMeta, server.URL, 3))

	data, err := client.Request(context.Background(), http.MethodGet, "/resource", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"123"}`, string(data))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	// Backoff exponencial entre as tentativas: 1s e depois 2s
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestClientNaoRepeteErroNaoRetryable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer server.Close()

	client, sleeps := testClient(t, testProfile(domain.PlatformMeta, server.URL, 3))

	_, err := client.Request(context.Background(), http.MethodPost, "/act_1/campaigns", map[string]string{"name": "x"}, nil)
	require.Error(t, err)

	var detail *domain.ApiErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "META_100", detail.Code)
	assert.Equal(t, domain.ErrorValidation, detail.Category)
	assert.False(t, detail.Retryable)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *sleeps)
}

func TestClientEsgotaRetriesEAfloraOErro(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, sleeps := testClient(t, testProfile(domain.PlatformMeta, server.URL, 2))

	_, err := client.Request(context.Background(), http.MethodGet, "/resource", nil, nil)
	require.Error(t, err)

	var detail *domain.ApiErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "META_SERVER", detail.Code)
	assert.Equal(t, domain.ErrorServer, detail.Category)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Len(t, *sleeps, 2)
}

func TestClientUsaBackoffMaiorParaRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`))
	}))
	defer server.Close()

	client, sleeps := testClient(t, testProfile(domain.PlatformX, server.URL, 1))

	_, err := client.Request(context.Background(), http.MethodGet, "/stats", nil, nil)
	require.Error(t, err)

	var detail *domain.ApiErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "X_88", detail.Code)
	assert.True(t, detail.RateLimited)

	assert.Equal(t, []time.Duration{5 * time.Second}, *sleeps)
}

func TestClientAtualizaRateLimitPeloHeaderDoMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-app-usage", `{"call_count":95,"total_time":10,"total_cputime":5}`)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	profile := testProfile(domain.PlatformMeta, server.URL, 0)
	profile.RateLimit = &RateLimitProfile{Limit: 200, Window: time.Hour}
	client, _ := testClient(t, profile)

	_, err := client.Request(context.Background(), http.MethodGet, "/resource", nil, nil)
	require.NoError(t, err)

	assert.True(t, client.NearExhaustion())
	assert.Equal(t, 190, client.RateLimitSnapshot().Used)
}

func TestClientDetectaErroNoCorpoDoTikTok(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		// A Marketing API devolve HTTP 200 mesmo em erro
		w.Write([]byte(`{"code":40100,"message":"Invalid parameter","data":{}}`))
	}))
	defer server.Close()

	profile := DefaultProfiles()[domain.PlatformTikTok]
	profile.BaseURL = server.URL
	client, _ := testClient(t, profile)

	_, err := client.Request(context.Background(), http.MethodGet, "/ad/get/", nil, nil)
	require.Error(t, err)

	var detail *domain.ApiErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "TIKTOK_40100", detail.Code)
	assert.Equal(t, domain.ErrorValidation, detail.Category)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientAceitaCorpoDeSucessoDoTikTok(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"message":"OK","data":{"campaign_id":"777"}}`))
	}))
	defer server.Close()

	profile := DefaultProfiles()[domain.PlatformTikTok]
	profile.BaseURL = server.URL
	client, _ := testClient(t, profile)

	data, err := client.Request(context.Background(), http.MethodPost, "/campaign/create/", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "777")
}

func TestClientEnviaHeadersDePerfilEOpcoes(t *testing.T) {
	var gotContentType, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := testClient(t, testProfile(domain.PlatformSnapchat, server.URL, 0))

	_, err := client.Request(context.Background(), http.MethodGet, "/me", nil, &RequestOptions{
		Headers: map[string]string{"Authorization": "Bearer token-abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Bearer token-abc", gotAuth)
}

func TestClientMontaQueryString(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := testClient(t, testProfile(domain.PlatformMeta, server.URL, 0))

	opts := &RequestOptions{Query: map[string][]string{"fields": {"effective_status"}}}
	_, err := client.Request(context.Background(), http.MethodGet, "/123", nil, opts)
	require.NoError(t, err)

	assert.Equal(t, "fields=effective_status", gotQuery)
}
