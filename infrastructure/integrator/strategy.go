package integrator

import (
	"math"
	"net/url"
	"time"

	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// Níveis do grafo de recursos criado em cada plataforma, na ordem do fluxo
// campanha → conjunto → criativo → anúncio
const (
	LevelCampaign = "campaign"
	LevelAdSet    = "adset"
	LevelCreative = "creative"
	LevelAd       = "ad"
)

// Request descreve uma chamada à plataforma montada pela estratégia
type Request struct {
	Method   string
	Endpoint string
	Body     interface{}
	Query    url.Values
}

// StepContext é o estado visível aos construtores de payload durante a
// criação multi-etapa: a campanha (somente leitura), as credenciais e os
// IDs já criados nas etapas anteriores
type StepContext struct {
	Campaign *domain.AdCampaign
	Creds    domain.Credentials
	IDs      map[string]string
}

// Step é uma etapa da criação multi-etapa: monta a requisição e extrai o
// ID do recurso criado da resposta
type Step struct {
	Level     string
	Build     func(sc *StepContext) Request
	ExtractID func(body []byte) string
}

// Strategy é a tabela específica de plataforma que parametriza o adaptador
// genérico: fluxo de autenticação, etapas de criação, formatação de
// payloads, mapeamentos de status, métrica e CTA
type Strategy struct {
	Platform domain.Platform

	// Flow alimenta o gerenciador de autenticação
	Flow auth.Flow

	// Validate confere os pré-requisitos do adaptador antes de qualquer
	// chamada (ex.: ad account id e page id resolvidos no Meta)
	Validate func(creds domain.Credentials) error

	// AuthHeaders monta os headers de autenticação de cada chamada
	AuthHeaders func(token string, creds domain.Credentials) map[string]string

	// Steps na ordem de criação do grafo de recursos
	Steps []Step

	// Update monta a requisição de atualização no nível certo do grafo
	Update func(campaign *domain.AdCampaign, adID string, creds domain.Credentials) Request

	// Delete monta a requisição de remoção, normalmente uma transição de
	// status para um estado terminal, exceto onde a plataforma suporta
	// remoção definitiva
	Delete func(adID string, creds domain.Credentials) Request

	// Status monta a consulta de status e ParseStatus traduz a resposta
	// para o enum comum de seis valores
	Status      func(adID string, creds domain.Credentials) Request
	ParseStatus func(body []byte) domain.CampaignStatus

	// Metrics mapeia nomes genéricos de métrica para o vocabulário da
	// plataforma; Performance monta a consulta de insights e ParseMetrics
	// devolve os valores por nome de plataforma
	Metrics      map[string]string
	Performance  func(adID string, metrics []string, start, end time.Time, creds domain.Credentials) Request
	ParseMetrics func(body []byte) map[string]float64

	// LookbackDays define a janela fixa de consulta de desempenho (7–30
	// dias conforme a plataforma)
	LookbackDays int
}

// MinorUnits converte um orçamento em unidade monetária principal para a
// unidade mínima da plataforma (centavos)
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// MicroUnits converte um orçamento para micros, a unidade do Google Ads
func MicroUnits(amount float64) int64 {
	return int64(math.Round(amount * 1_000_000))
}
