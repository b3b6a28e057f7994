package pipeline

import (
	"fmt"
	"time"

	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

// maxNetworkRetries limita quantas falhas de rede o middleware de retry
// absorve antes de deixar o erro aflorar
const maxNetworkRetries = 3

// LoggingRequest registra o início de cada requisição e emite o evento
// request_start para os coletores de analytics
func LoggingRequest(logger log.Logger, emitter events.Emitter) RequestFunc {
	return func(ctx *domain.RequestContext) {
		logger.WithFields(log.Fields{
			"platform":    ctx.Platform.String(),
			"method":      ctx.Method,
			"endpoint":    ctx.Endpoint,
			"request_id":  ctx.RequestID,
			"retry_count": ctx.RetryCount,
		}).Debug("Iniciando requisição à plataforma")

		emitter.Emit(events.Event{
			Type:      events.EventRequestStart,
			Platform:  ctx.Platform,
			Timestamp: ctx.StartedAt,
			Payload: map[string]interface{}{
				"method":      ctx.Method,
				"endpoint":    ctx.Endpoint,
				"request_id":  ctx.RequestID,
				"retry_count": ctx.RetryCount,
			},
		})
	}
}

// LoggingResponse registra cada resposta recebida e emite o evento
// response_received
func LoggingResponse(logger log.Logger, emitter events.Emitter) ResponseFunc {
	return func(ctx *domain.ResponseContext) {
		logger.WithFields(log.Fields{
			"platform":    ctx.Request.Platform.String(),
			"endpoint":    ctx.Request.Endpoint,
			"request_id":  ctx.Request.RequestID,
			"status_code": ctx.HTTPStatus,
			"duration_ms": ctx.Duration.Milliseconds(),
		}).Debug("Resposta recebida da plataforma")

		emitter.Emit(events.Event{
			Type:      events.EventResponse,
			Platform:  ctx.Request.Platform,
			Timestamp: time.Now(),
			Duration:  ctx.Duration,
			Payload: map[string]interface{}{
				"endpoint":    ctx.Request.Endpoint,
				"request_id":  ctx.Request.RequestID,
				"status_code": ctx.HTTPStatus,
			},
		})
	}
}

// LoggingError registra todo erro classificado e emite o evento error
func LoggingError(logger log.Logger, emitter events.Emitter) ErrorFunc {
	return func(ctx *domain.ErrorContext) {
		logger.WithFields(log.Fields{
			"platform":   ctx.Request.Platform.String(),
			"endpoint":   ctx.Request.Endpoint,
			"request_id": ctx.Request.RequestID,
			"code":       ctx.Detail.Code,
			"category":   string(ctx.Detail.Category),
			"retryable":  ctx.Detail.Retryable,
		}).Warn("Erro classificado na chamada à plataforma")

		emitter.Emit(events.Event{
			Type:      events.EventError,
			Platform:  ctx.Request.Platform,
			Timestamp: time.Now(),
			Payload: map[string]interface{}{
				"endpoint":   ctx.Request.Endpoint,
				"request_id": ctx.Request.RequestID,
				"code":       ctx.Detail.Code,
				"category":   string(ctx.Detail.Category),
			},
		})
	}
}

// RateLimitError enriquece a mensagem de erros RATE_LIMIT e emite o evento
// rate_limit
func RateLimitError(emitter events.Emitter) ErrorFunc {
	return func(ctx *domain.ErrorContext) {
		if ctx.Detail.Category != domain.ErrorRateLimit {
			return
		}

		ctx.Detail.Message = fmt.Sprintf(
			"%s (endpoint %s, tentativa %d)",
			ctx.Detail.Message, ctx.Request.Endpoint, ctx.Request.RetryCount,
		)

		emitter.Emit(events.Event{
			Type:      events.EventRateLimit,
			Platform:  ctx.Request.Platform,
			Timestamp: time.Now(),
			Payload: map[string]interface{}{
				"endpoint":    ctx.Request.Endpoint,
				"request_id":  ctx.Request.RequestID,
				"code":        ctx.Detail.Code,
				"retry_count": ctx.Request.RetryCount,
			},
		})
	}
}

// AuthError enriquece a mensagem de erros AUTH e emite o evento de falha
// de autenticação. O refresh automático não acontece aqui: é
// responsabilidade do chamador reinicializar o adaptador antes de repetir.
func AuthError(emitter events.Emitter) ErrorFunc {
	return func(ctx *domain.ErrorContext) {
		if ctx.Detail.Category != domain.ErrorAuth {
			return
		}

		ctx.Detail.Message = fmt.Sprintf(
			"%s (plataforma %s requer reautenticação)",
			ctx.Detail.Message, ctx.Request.Platform,
		)

		emitter.Emit(events.Event{
			Type:      events.EventAuthResult,
			Platform:  ctx.Request.Platform,
			Timestamp: time.Now(),
			Payload: map[string]interface{}{
				"endpoint":   ctx.Request.Endpoint,
				"request_id": ctx.Request.RequestID,
				"code":       ctx.Detail.Code,
				"success":    false,
			},
		})
	}
}

// NetworkRetry absorve erros de rede enquanto o contador de tentativas não
// atingir o teto, sinalizando ao chamador que deve repetir em vez de aflorar
func NetworkRetry() ErrorFunc {
	return func(ctx *domain.ErrorContext) {
		if ctx.Detail.Category != domain.ErrorNetwork {
			return
		}
		if ctx.Request.RetryCount < maxNetworkRetries {
			ctx.Handled = true
		}
	}
}

// Default monta o pipeline padrão do gateway na ordem exigida: logging
// primeiro, enriquecimento de rate limit e auth depois da classificação, e
// o retry de rede por último, antes da decisão do chamador
func Default(logger log.Logger, emitter events.Emitter) *Pipeline {
	return New(
		WithRequest(LoggingRequest(logger, emitter)),
		WithResponse(LoggingResponse(logger, emitter)),
		WithError(
			LoggingError(logger, emitter),
			RateLimitError(emitter),
			AuthError(emitter),
			NetworkRetry(),
		),
	)
}
