package transport

import (
	"time"

	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/platformerror"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// RateLimitProfile descreve o limite de requisições de uma plataforma
// dentro de uma janela deslizante
type RateLimitProfile struct {
	Limit  int
	Window time.Duration
}

// Profile é a configuração estática de transporte de uma plataforma:
// URL base, timeout, número padrão de retries, headers e perfil de rate limit
type Profile struct {
	Platform       domain.Platform
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	DefaultHeaders map[string]string
	RateLimit      *RateLimitProfile
	// CheckBody detecta erros que a plataforma devolve com HTTP 200 mas
	// código de erro no corpo (caso do TikTok)
	CheckBody func(body []byte) *platformerror.RawError
}

// DefaultProfiles devolve os perfis de transporte fixos por plataforma.
// Os timeouts e retries seguem os defaults do contrato: Meta 30s/3,
// Google 60s/3, X 30s/2, TikTok 30s/3, Snapchat 30s/3.
func DefaultProfiles() map[domain.Platform]*Profile {
	return map[domain.Platform]*Profile{
		domain.PlatformMeta: {
			Platform:   domain.PlatformMeta,
			BaseURL:    "https://graph.facebook.com/v18.0",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			RateLimit: &RateLimitProfile{Limit: 200, Window: time.Hour},
		},
		domain.PlatformX: {
			Platform:   domain.PlatformX,
			BaseURL:    "https://ads-api.twitter.com/12",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			RateLimit: &RateLimitProfile{Limit: 300, Window: 15 * time.Minute},
		},
		domain.PlatformGoogle: {
			Platform:   domain.PlatformGoogle,
			BaseURL:    "https://googleads.googleapis.com/v15",
			Timeout:    60 * time.Second,
			MaxRetries: 3,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
		},
		domain.PlatformTikTok: {
			Platform:   domain.PlatformTikTok,
			BaseURL:    "https://business-api.tiktok.com/open_api/v1.3",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			RateLimit: &RateLimitProfile{Limit: 600, Window: time.Minute},
			CheckBody: tiktokBodyCheck,
		},
		domain.PlatformSnapchat: {
			Platform:   domain.PlatformSnapchat,
			BaseURL:    "https://adsapi.snapchat.com/v1",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
		},
	}
}

// tiktokBodyCheck detecta o código de erro que a Marketing API devolve no
// corpo mesmo em respostas HTTP 200; código 0 significa sucesso
func tiktokBodyCheck(body []byte) *platformerror.RawError {
	raw := platformerror.ParseBody(domain.PlatformTikTok, 0, body)
	if raw.Code == "" || raw.Code == "0" {
		return nil
	}
	return &raw
}
