package transport

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// nearExhaustionRatio é a fração do limite a partir da qual o cliente
// considera a janela de rate limit perto do esgotamento
const nearExhaustionRatio = 0.9

// rateTracker acompanha o consumo de rate limit de um único cliente.
// O estado é privado por instância: não há compartilhamento entre
// processos nem entre clientes.
type rateTracker struct {
	mu      sync.Mutex
	profile *RateLimitProfile
	used    int
	resetAt time.Time
	now     func() time.Time
}

func newRateTracker(profile *RateLimitProfile, now func() time.Time) *rateTracker {
	return &rateTracker{profile: profile, now: now}
}

// metaAppUsage é o JSON do header x-app-usage da Graph API, com percentuais
// de uso em relação ao limite
type metaAppUsage struct {
	CallCount    int `json:"call_count"`
	TotalTime    int `json:"total_time"`
	TotalCPUTime int `json:"total_cputime"`
}

// UpdateFromHeaders interpreta os headers de rate limit próprios de cada
// plataforma e atualiza o contador interno
func (t *rateTracker) UpdateFromHeaders(platform domain.Platform, headers http.Header) {
	if t == nil || t.profile == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfElapsedLocked()

	switch platform {
	case domain.PlatformMeta:
		// O Meta reporta percentual de uso, não contagem absoluta
		if usage := headers.Get("x-app-usage"); usage != "" {
			var parsed metaAppUsage
			if err := json.Unmarshal([]byte(usage), &parsed); err == nil {
				t.used = parsed.CallCount * t.profile.Limit / 100
				if t.resetAt.IsZero() {
					t.resetAt = t.now().Add(t.profile.Window)
				}
				return
			}
		}
		t.countLocked()
	case domain.PlatformX:
		remaining := headers.Get("x-rate-limit-remaining")
		reset := headers.Get("x-rate-limit-reset")
		if remaining == "" {
			t.countLocked()
			return
		}
		if r, err := strconv.Atoi(remaining); err == nil {
			t.used = t.profile.Limit - r
		}
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			t.resetAt = time.Unix(epoch, 0)
		}
	case domain.PlatformTikTok:
		remaining := headers.Get("x-ratelimit-remaining")
		reset := headers.Get("x-ratelimit-reset")
		if remaining == "" {
			t.countLocked()
			return
		}
		if r, err := strconv.Atoi(remaining); err == nil {
			t.used = t.profile.Limit - r
		}
		if seconds, err := strconv.Atoi(reset); err == nil {
			t.resetAt = t.now().Add(time.Duration(seconds) * time.Second)
		}
	default:
		t.countLocked()
	}
}

// countLocked incrementa o contador local quando a plataforma não devolve
// headers utilizáveis
func (t *rateTracker) countLocked() {
	if t.resetAt.IsZero() || !t.resetAt.After(t.now()) {
		t.used = 0
		t.resetAt = t.now().Add(t.profile.Window)
	}
	t.used++
}

func (t *rateTracker) resetIfElapsedLocked() {
	if !t.resetAt.IsZero() && !t.resetAt.After(t.now()) {
		t.used = 0
		t.resetAt = time.Time{}
	}
}

// NearExhaustion informa se o consumo cruzou 90% do limite dentro da
// janela corrente. Após o fim da janela o contador é zerado e a resposta
// volta a ser falsa.
func (t *rateTracker) NearExhaustion() bool {
	if t == nil || t.profile == nil || t.profile.Limit == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfElapsedLocked()
	return float64(t.used) >= nearExhaustionRatio*float64(t.profile.Limit)
}

// Snapshot devolve o retrato atual do rate limit para compor o meta da resposta
func (t *rateTracker) Snapshot() *domain.RateLimitSnapshot {
	if t == nil || t.profile == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfElapsedLocked()
	return &domain.RateLimitSnapshot{
		Limit:     t.profile.Limit,
		Used:      t.used,
		ResetsAt:  t.resetAt,
		Exhausted: float64(t.used) >= nearExhaustionRatio*float64(t.profile.Limit),
	}
}
