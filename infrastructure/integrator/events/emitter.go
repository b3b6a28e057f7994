package events

import (
	"strings"
	"time"

	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

// EventType identifica os eventos one-way emitidos para os coletores de
// logging/analytics/error-tracking
type EventType string

const (
	EventRequestStart EventType = "request_start"
	EventResponse     EventType = "response_received"
	EventError        EventType = "error"
	EventAdCreated    EventType = "ad_created"
	EventAdUpdated    EventType = "ad_updated"
	EventAdDeleted    EventType = "ad_deleted"
	EventAuthResult   EventType = "authentication_result"
	EventRateLimit    EventType = "rate_limit"
)

// Event é o registro fire-and-forget entregue aos coletores. O payload já
// chega sanitizado: credenciais e tokens são redigidos antes da emissão.
type Event struct {
	Type      EventType              `json:"type"`
	Platform  domain.Platform        `json:"platform"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Emitter é a interface one-way consumida pelos componentes do gateway.
// Implementações não devem bloquear nem devolver erro ao fluxo principal.
type Emitter interface {
	Emit(event Event)
}

// sensitiveKeys são as chaves de payload redigidas antes da emissão
var sensitiveKeys = []string{
	"token", "access_token", "secret", "password", "credential", "authorization",
}

// Sanitize devolve uma cópia do payload com valores sensíveis redigidos
func Sanitize(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}
	clean := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if isSensitive(k) {
			clean[k] = "[REDACTED]"
			continue
		}
		clean[k] = v
	}
	return clean
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// logEmitter entrega os eventos ao logger estruturado. É o coletor padrão
// quando nenhum sink externo está configurado.
type logEmitter struct {
	logger log.Logger
}

// NewLogEmitter cria um emissor que publica os eventos como logs estruturados
func NewLogEmitter(logger log.Logger) Emitter {
	return &logEmitter{logger: logger}
}

func (e *logEmitter) Emit(event Event) {
	fields := log.Fields{
		"event":    string(event.Type),
		"platform": event.Platform.String(),
	}
	if event.Duration > 0 {
		fields["duration_ms"] = event.Duration.Milliseconds()
	}
	for k, v := range Sanitize(event.Payload) {
		fields[k] = v
	}

	logger := e.logger.WithFields(fields)
	if event.Type == EventError {
		logger.Warn("Evento de integração emitido")
		return
	}
	logger.Info("Evento de integração emitido")
}

// multiEmitter distribui o mesmo evento para vários coletores
type multiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter agrupa coletores independentes em um único Emitter
func NewMultiEmitter(emitters ...Emitter) Emitter {
	return &multiEmitter{emitters: emitters}
}

func (m *multiEmitter) Emit(event Event) {
	for _, e := range m.emitters {
		e.Emit(event)
	}
}
