package domain

import "time"

// RequestContext é o registro efêmero que atravessa o pipeline de
// middlewares junto com cada chamada; pertence à chamada e é descartado
// ao final dela
type RequestContext struct {
	Platform   Platform
	Method     string
	Endpoint   string
	RequestID  string
	StartedAt  time.Time
	RetryCount int
	Body       interface{}
}

// ResponseContext acompanha a resposta pelo pipeline
type ResponseContext struct {
	Request    *RequestContext
	HTTPStatus int
	Duration   time.Duration
	Data       []byte
	RateLimit  *RateLimitSnapshot
}

// ErrorContext acompanha um erro já classificado pelo pipeline
type ErrorContext struct {
	Request *RequestContext
	Detail  *ApiErrorDetail
	// Handled sinaliza que um middleware absorveu o erro (ex.: retry de
	// rede) e a cadeia deve curto-circuitar
	Handled bool
}
