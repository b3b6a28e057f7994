package domain

import (
	"errors"
	"time"
)

// ErrInvalidStatus indica um status fora do enum de seis valores
var ErrInvalidStatus = errors.New("status de campanha inválido")

// ErrorCategory é a taxonomia de erros comum a todas as plataformas
type ErrorCategory string

const (
	ErrorNetwork    ErrorCategory = "NETWORK"
	ErrorAuth       ErrorCategory = "AUTH"
	ErrorRateLimit  ErrorCategory = "RATE_LIMIT"
	ErrorValidation ErrorCategory = "VALIDATION"
	ErrorNotFound   ErrorCategory = "NOT_FOUND"
	ErrorServer     ErrorCategory = "SERVER"
	ErrorTimeout    ErrorCategory = "TIMEOUT"
	ErrorUnknown    ErrorCategory = "UNKNOWN"
)

// ApiErrorDetail carrega o erro tipado exposto ao chamador. O código é
// namespaced por plataforma (ex.: META_190) e a flag Retryable vem
// exclusivamente da tabela de classificação, nunca do adaptador.
type ApiErrorDetail struct {
	Code        string        `json:"code"`
	Category    ErrorCategory `json:"category"`
	Message     string        `json:"message"`
	Platform    Platform      `json:"platform"`
	HTTPStatus  int           `json:"http_status,omitempty"`
	Retryable   bool          `json:"retryable"`
	RateLimited bool          `json:"rate_limited"`
	AuthError   bool          `json:"auth_error"`
	Action      string        `json:"recommended_action,omitempty"`
	// PartialIDs carrega os IDs já criados remotamente quando uma criação
	// multi-etapa falha no meio. Não há rollback automático: o chamador
	// decide a limpeza.
	PartialIDs map[string]string `json:"partial_ids,omitempty"`
}

// Error implementa a interface error para propagação interna
func (e *ApiErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}

// RateLimitSnapshot é o retrato do limite de requisições no momento da resposta
type RateLimitSnapshot struct {
	Limit     int       `json:"limit"`
	Used      int       `json:"used"`
	ResetsAt  time.Time `json:"resets_at"`
	Exhausted bool      `json:"near_exhaustion"`
}

// ResponseMeta acompanha a resposta com dados operacionais opcionais
type ResponseMeta struct {
	RequestID  string             `json:"request_id,omitempty"`
	NextCursor string             `json:"next_cursor,omitempty"`
	RateLimit  *RateLimitSnapshot `json:"rate_limit,omitempty"`
}

// ApiResponse é o contrato success|error único devolvido ao chamador,
// independentemente de qual plataforma falhou e por quê
type ApiResponse struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data,omitempty"`
	Error   *ApiErrorDetail `json:"error,omitempty"`
	Meta    *ResponseMeta   `json:"meta,omitempty"`
}

// OK monta uma resposta de sucesso
func OK(data interface{}) *ApiResponse {
	return &ApiResponse{Success: true, Data: data}
}

// Fail monta uma resposta de erro a partir do detalhe tipado
func Fail(detail *ApiErrorDetail) *ApiResponse {
	return &ApiResponse{Success: false, Error: detail}
}

// AdIdentifiers é o pacote composto de IDs devolvido por uma criação
// multi-etapa bem-sucedida
type AdIdentifiers struct {
	ID         string         `json:"id"`
	CampaignID string         `json:"campaignId"`
	AdSetID    string         `json:"adSetId"`
	CreativeID string         `json:"creativeId"`
	Status     CampaignStatus `json:"status"`
}

// PerformanceReport agrega as métricas de desempenho de um anúncio,
// já traduzidas de volta para os nomes genéricos solicitados
type PerformanceReport struct {
	AdID      string             `json:"ad_id"`
	Platform  Platform           `json:"platform"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Metrics   map[string]float64 `json:"metrics"`
}
