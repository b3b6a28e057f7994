package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/pipeline"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/platformerror"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
	"github.com/vfg2006/ad-gateway-api/pkg/utils"
)

// RequestOptions ajusta uma chamada individual sem alterar o perfil da
// plataforma
type RequestOptions struct {
	Headers    map[string]string
	Query      url.Values
	MaxRetries *int
}

// Requester é o contrato de transporte consumido pelos adaptadores
type Requester interface {
	Request(ctx context.Context, method, endpoint string, body interface{}, opts *RequestOptions) ([]byte, error)
	NearExhaustion() bool
	RateLimitSnapshot() *domain.RateLimitSnapshot
	Platform() domain.Platform
}

// Client executa chamadas HTTP para uma plataforma através do pipeline de
// middlewares, com retry limitado e backoff exponencial. Os contadores de
// rate limit são privados da instância.
type Client struct {
	profile    *Profile
	httpClient *http.Client
	pipeline   *pipeline.Pipeline
	tracker    *rateTracker
	logger     log.Logger
	now        func() time.Time
	sleep      func(time.Duration)
}

// ClientOption configura o cliente na construção
type ClientOption func(*Client)

// WithHTTPClient substitui o cliente HTTP (testes)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock injeta relógio e sleep determinísticos (testes)
func WithClock(now func() time.Time, sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.now = now
		c.sleep = sleep
	}
}

// NewClient cria um cliente de transporte para o perfil dado
func NewClient(profile *Profile, pl *pipeline.Pipeline, logger log.Logger, opts ...ClientOption) *Client {
	c := &Client{
		profile: profile,
		httpClient: &http.Client{
			Timeout: profile.Timeout,
		},
		pipeline: pl,
		tracker:  newRateTracker(profile.RateLimit, time.Now),
		logger:   logger,
		now:      time.Now,
		sleep:    time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.tracker.now = c.now

	return c
}

// Platform identifica a plataforma atendida por este cliente
func (c *Client) Platform() domain.Platform {
	return c.profile.Platform
}

// NearExhaustion informa se o uso cruzou 90% do limite na janela corrente
func (c *Client) NearExhaustion() bool {
	return c.tracker.NearExhaustion()
}

// RateLimitSnapshot devolve o retrato atual do rate limit deste cliente
func (c *Client) RateLimitSnapshot() *domain.RateLimitSnapshot {
	return c.tracker.Snapshot()
}

// Backoff calcula o atraso da tentativa n: 1000×2^n ms, ou 5000×2^n ms
// quando o erro foi de rate limit
func Backoff(attempt int, rateLimited bool) time.Duration {
	base := 1000 * time.Millisecond
	if rateLimited {
		base = 5000 * time.Millisecond
	}
	return base * time.Duration(1<<attempt)
}

// Request executa a chamada com retry sequencial dentro da mesma cadeia.
// Erros retryable são repetidos com backoff até o teto configurado e só
// então afloram como *domain.ApiErrorDetail.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}, opts *RequestOptions) ([]byte, error) {
	maxRetries := c.profile.MaxRetries
	if opts != nil && opts.MaxRetries != nil {
		maxRetries = *opts.MaxRetries
	}

	requestID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar request id")
	}

	for attempt := 0; ; attempt++ {
		reqCtx := &domain.RequestContext{
			Platform:   c.profile.Platform,
			Method:     method,
			Endpoint:   endpoint,
			RequestID:  requestID,
			StartedAt:  c.now(),
			RetryCount: attempt,
			Body:       body,
		}

		c.pipeline.ProcessRequest(reqCtx)

		data, detail := c.do(ctx, reqCtx, opts)
		if detail == nil {
			return data, nil
		}

		errCtx := &domain.ErrorContext{Request: reqCtx, Detail: detail}
		c.pipeline.ProcessError(errCtx)

		retry := (errCtx.Handled || detail.Retryable) && attempt < maxRetries
		if !retry {
			return nil, detail
		}

		delay := Backoff(attempt, detail.RateLimited)
		c.logger.WithFields(log.Fields{
			"platform":   c.profile.Platform.String(),
			"endpoint":   endpoint,
			"request_id": requestID,
			"attempt":    attempt,
			"delay_ms":   delay.Milliseconds(),
		}).Info("Repetindo chamada após erro retryable")
		c.sleep(delay)
	}
}

// do executa uma única tentativa e devolve os dados ou o erro classificado
func (c *Client) do(ctx context.Context, reqCtx *domain.RequestContext, opts *RequestOptions) ([]byte, *domain.ApiErrorDetail) {
	requestURL, err := c.buildURL(reqCtx.Endpoint, opts)
	if err != nil {
		return nil, platformerror.Classify(platformerror.RawError{Err: err}, c.profile.Platform)
	}

	var bodyReader io.Reader
	if reqCtx.Body != nil {
		payload, err := json.Marshal(reqCtx.Body)
		if err != nil {
			return nil, &domain.ApiErrorDetail{
				Code:     strings.ToUpper(c.profile.Platform.String()) + "_SERIALIZATION",
				Category: domain.ErrorValidation,
				Message:  "Erro ao serializar o corpo da requisição: " + err.Error(),
				Platform: c.profile.Platform,
			}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, reqCtx.Method, requestURL, bodyReader)
	if err != nil {
		return nil, platformerror.Classify(platformerror.RawError{Err: err}, c.profile.Platform)
	}

	for k, v := range c.profile.DefaultHeaders {
		req.Header.Set(k, v)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, platformerror.Classify(platformerror.RawError{
			Err:     err,
			Timeout: isTimeout(err),
		}, c.profile.Platform)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, platformerror.Classify(platformerror.RawError{Err: err}, c.profile.Platform)
	}

	c.tracker.UpdateFromHeaders(c.profile.Platform, resp.Header)

	duration := c.now().Sub(reqCtx.StartedAt)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if c.profile.CheckBody != nil {
			if raw := c.profile.CheckBody(respBody); raw != nil {
				raw.HTTPStatus = resp.StatusCode
				return nil, platformerror.Classify(*raw, c.profile.Platform)
			}
		}

		c.pipeline.ProcessResponse(&domain.ResponseContext{
			Request:    reqCtx,
			HTTPStatus: resp.StatusCode,
			Duration:   duration,
			Data:       respBody,
			RateLimit:  c.tracker.Snapshot(),
		})
		return respBody, nil
	}

	raw := platformerror.ParseBody(c.profile.Platform, resp.StatusCode, respBody)
	return nil, platformerror.Classify(raw, c.profile.Platform)
}

func (c *Client) buildURL(endpoint string, opts *RequestOptions) (string, error) {
	full := c.profile.BaseURL + endpoint
	if opts == nil || len(opts.Query) == 0 {
		return full, nil
	}

	parsed, err := url.Parse(full)
	if err != nil {
		return "", errors.Wrapf(err, "endpoint inválido: %s", endpoint)
	}

	query := parsed.Query()
	for k, values := range opts.Query {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
