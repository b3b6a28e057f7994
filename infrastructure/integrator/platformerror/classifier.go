package platformerror

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawError é o erro bruto observado pelo transporte antes da classificação:
// ou uma falha de rede (Err preenchido, sem resposta), ou uma resposta HTTP
// de erro com o código extraído do corpo
type RawError struct {
	Err        error
	Timeout    bool
	HTTPStatus int
	Code       string
	Subcode    int
	Message    string
}

// Classify mapeia um erro bruto para o detalhe tipado comum. A ordem das
// regras importa: falhas de rede primeiro, depois status HTTP, depois a
// tabela de códigos conhecidos da plataforma, e por fim UNKNOWN.
func Classify(raw RawError, platform domain.Platform) *domain.ApiErrorDetail {
	if raw.Err != nil {
		if raw.Timeout {
			return &domain.ApiErrorDetail{
				Code:      namespaced(platform, "TIMEOUT"),
				Category:  domain.ErrorTimeout,
				Message:   fmt.Sprintf("Tempo limite excedido: %v", raw.Err),
				Platform:  platform,
				Retryable: true,
			}
		}
		return &domain.ApiErrorDetail{
			Code:      namespaced(platform, "NETWORK"),
			Category:  domain.ErrorNetwork,
			Message:   fmt.Sprintf("Falha de rede sem resposta da plataforma: %v", raw.Err),
			Platform:  platform,
			Retryable: true,
		}
	}

	if e, ok := lookup(platform, raw); ok {
		return &domain.ApiErrorDetail{
			Code:        namespaced(platform, raw.Code),
			Category:    e.Category,
			Message:     withPlatformMessage(e.Message, raw.Message),
			Platform:    platform,
			HTTPStatus:  raw.HTTPStatus,
			Retryable:   e.Retryable,
			RateLimited: e.Category == domain.ErrorRateLimit,
			AuthError:   e.Category == domain.ErrorAuth,
			Action:      e.Action,
		}
	}

	switch {
	case raw.HTTPStatus == http.StatusUnauthorized || raw.HTTPStatus == http.StatusForbidden:
		return &domain.ApiErrorDetail{
			Code:       statusCode(platform, raw, "AUTH"),
			Category:   domain.ErrorAuth,
			Message:    withPlatformMessage("Autenticação rejeitada pela plataforma", raw.Message),
			Platform:   platform,
			HTTPStatus: raw.HTTPStatus,
			AuthError:  true,
			Action:     "Reautentique a plataforma antes de tentar novamente",
		}
	case raw.HTTPStatus == http.StatusTooManyRequests:
		return &domain.ApiErrorDetail{
			Code:        statusCode(platform, raw, "RATE_LIMIT"),
			Category:    domain.ErrorRateLimit,
			Message:     withPlatformMessage("Limite de requisições excedido", raw.Message),
			Platform:    platform,
			HTTPStatus:  raw.HTTPStatus,
			Retryable:   true,
			RateLimited: true,
			Action:      "Aguarde a janela de rate limit antes de repetir",
		}
	case raw.HTTPStatus == http.StatusNotFound:
		return &domain.ApiErrorDetail{
			Code:       statusCode(platform, raw, "NOT_FOUND"),
			Category:   domain.ErrorNotFound,
			Message:    withPlatformMessage("Recurso não encontrado na plataforma", raw.Message),
			Platform:   platform,
			HTTPStatus: raw.HTTPStatus,
		}
	case raw.HTTPStatus >= http.StatusInternalServerError:
		return &domain.ApiErrorDetail{
			Code:       statusCode(platform, raw, "SERVER"),
			Category:   domain.ErrorServer,
			Message:    withPlatformMessage("Erro interno da plataforma", raw.Message),
			Platform:   platform,
			HTTPStatus: raw.HTTPStatus,
			Retryable:  true,
		}
	}

	code := raw.Code
	if code == "" {
		code = "UNKNOWN"
	}
	return &domain.ApiErrorDetail{
		Code:       namespaced(platform, code),
		Category:   domain.ErrorUnknown,
		Message:    withPlatformMessage("Erro não mapeado da plataforma", raw.Message),
		Platform:   platform,
		HTTPStatus: raw.HTTPStatus,
	}
}

func lookup(platform domain.Platform, raw RawError) (entry, bool) {
	table, ok := knownCodes[platform]
	if !ok || raw.Code == "" {
		return entry{}, false
	}
	e, ok := table[raw.Code]
	if ok {
		return e, true
	}
	// A Graph API sinaliza problemas de token também por subcódigo
	// (460/463/467), mantendo o código principal genérico.
	if platform == domain.PlatformMeta && isMetaTokenSubcode(raw.Subcode) {
		return table["190"], true
	}
	return entry{}, false
}

func isMetaTokenSubcode(subcode int) bool {
	return subcode == 460 || subcode == 463 || subcode == 467
}

func namespaced(platform domain.Platform, code string) string {
	return strings.ToUpper(platform.String()) + "_" + code
}

func statusCode(platform domain.Platform, raw RawError, fallback string) string {
	if raw.Code != "" {
		return namespaced(platform, raw.Code)
	}
	return namespaced(platform, fallback)
}

func withPlatformMessage(base, platformMsg string) string {
	if platformMsg == "" {
		return base
	}
	return base + ": " + platformMsg
}
