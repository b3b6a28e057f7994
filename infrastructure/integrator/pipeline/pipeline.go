package pipeline

import (
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// RequestFunc intercepta o contexto antes da chamada HTTP
type RequestFunc func(*domain.RequestContext)

// ResponseFunc intercepta o contexto após uma resposta bem-sucedida
type ResponseFunc func(*domain.ResponseContext)

// ErrorFunc intercepta um erro já classificado. Pode marcar Handled para
// absorver o erro e curto-circuitar o restante da cadeia.
type ErrorFunc func(*domain.ErrorContext)

// Pipeline mantém as listas ordenadas de interceptadores de requisição,
// resposta e erro. A ordem de registro é a ordem de execução: os
// middlewares de elegibilidade de retry devem vir depois da classificação
// e antes da decisão do chamador.
type Pipeline struct {
	requests  []RequestFunc
	responses []ResponseFunc
	errors    []ErrorFunc
}

// Option configura o pipeline na construção
type Option func(*Pipeline)

// WithRequest registra middlewares de requisição na ordem dada
func WithRequest(fns ...RequestFunc) Option {
	return func(p *Pipeline) {
		p.requests = append(p.requests, fns...)
	}
}

// WithResponse registra middlewares de resposta na ordem dada
func WithResponse(fns ...ResponseFunc) Option {
	return func(p *Pipeline) {
		p.responses = append(p.responses, fns...)
	}
}

// WithError registra middlewares de erro na ordem dada
func WithError(fns ...ErrorFunc) Option {
	return func(p *Pipeline) {
		p.errors = append(p.errors, fns...)
	}
}

// New cria um pipeline com os interceptadores configurados
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessRequest passa o contexto por todos os middlewares de requisição
func (p *Pipeline) ProcessRequest(ctx *domain.RequestContext) {
	for _, fn := range p.requests {
		fn(ctx)
	}
}

// ProcessResponse passa o contexto por todos os middlewares de resposta
func (p *Pipeline) ProcessResponse(ctx *domain.ResponseContext) {
	for _, fn := range p.responses {
		fn(ctx)
	}
}

// ProcessError passa o contexto pelos middlewares de erro, parando no
// primeiro que marcar o erro como absorvido
func (p *Pipeline) ProcessError(ctx *domain.ErrorContext) {
	for _, fn := range p.errors {
		fn(ctx)
		if ctx.Handled {
			return
		}
	}
}
