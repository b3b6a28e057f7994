package platformerror

import "github.com/vfg2006/ad-gateway-api/internal/domain"

// entry descreve um código de erro conhecido de uma plataforma. A flag
// Retryable aqui é a única fonte de verdade sobre elegibilidade de retry;
// os adaptadores nunca decidem isso por conta própria.
type entry struct {
	Category  domain.ErrorCategory
	Retryable bool
	Message   string
	Action    string
}

// knownCodes mapeia, por plataforma, os códigos de erro documentados de cada
// API para a taxonomia comum
var knownCodes = map[domain.Platform]map[string]entry{
	domain.PlatformMeta: {
		// O código 190 representa token expirado/inválido na Graph API.
		"190": {domain.ErrorAuth, false, "Token de acesso do Meta expirado ou inválido", "Reautentique o aplicativo via OAuth"},
		"4":   {domain.ErrorRateLimit, true, "Limite de requisições do aplicativo atingido", "Aguarde a janela de rate limit"},
		"17":  {domain.ErrorRateLimit, true, "Limite de requisições do usuário atingido", "Aguarde a janela de rate limit"},
		"613": {domain.ErrorRateLimit, true, "Limite de chamadas customizado excedido", "Aguarde a janela de rate limit"},
		"100": {domain.ErrorValidation, false, "Parâmetro inválido na requisição ao Meta", "Revise o payload enviado"},
		"803": {domain.ErrorNotFound, false, "Objeto não encontrado no Meta", ""},
		"10":  {domain.ErrorAuth, false, "Permissão negada pelo Meta", "Revise as permissões do aplicativo"},
		"200": {domain.ErrorAuth, false, "Permissões insuficientes para a operação", "Revise as permissões do aplicativo"},
		"1":   {domain.ErrorServer, true, "Erro interno da API do Meta", ""},
		"2":   {domain.ErrorServer, true, "Serviço do Meta temporariamente indisponível", ""},
	},
	domain.PlatformX: {
		"32":  {domain.ErrorAuth, false, "Não foi possível autenticar as credenciais OAuth1", "Verifique token e secret"},
		"89":  {domain.ErrorAuth, false, "Token do X inválido ou revogado", "Gere um novo par token/secret"},
		"215": {domain.ErrorAuth, false, "Dados de autenticação ausentes ou incorretos", "Verifique as credenciais OAuth1"},
		"88":  {domain.ErrorRateLimit, true, "Limite de requisições do X excedido", "Aguarde o reset informado em x-rate-limit-reset"},
		"34":  {domain.ErrorNotFound, false, "Recurso não encontrado no X", ""},
		"324": {domain.ErrorValidation, false, "Mídia ou criativo inválido para o X", "Revise o conteúdo do anúncio"},
		"130": {domain.ErrorServer, true, "X sobrecarregado no momento", ""},
		"131": {domain.ErrorServer, true, "Erro interno do X", ""},
	},
	domain.PlatformGoogle: {
		"AUTHENTICATION_ERROR": {domain.ErrorAuth, false, "Falha de autenticação no Google Ads", "Renove o refresh token"},
		"AUTHORIZATION_ERROR":  {domain.ErrorAuth, false, "Acesso negado pelo Google Ads", "Verifique o developer token e o customer id"},
		"OAUTH_TOKEN_EXPIRED":  {domain.ErrorAuth, false, "Token OAuth do Google expirado", "Renove o refresh token"},
		"QUOTA_ERROR":          {domain.ErrorRateLimit, true, "Cota de requisições do Google Ads esgotada", "Aguarde a janela de cota"},
		"RESOURCE_EXHAUSTED":   {domain.ErrorRateLimit, true, "Recursos da API do Google esgotados", "Aguarde antes de repetir"},
		"INVALID_ARGUMENT":     {domain.ErrorValidation, false, "Argumento inválido para o Google Ads", "Revise o payload enviado"},
		"REQUEST_ERROR":        {domain.ErrorValidation, false, "Requisição malformada para o Google Ads", "Revise o payload enviado"},
		"NOT_FOUND":            {domain.ErrorNotFound, false, "Recurso não encontrado no Google Ads", ""},
		"INTERNAL":             {domain.ErrorServer, true, "Erro interno do Google Ads", ""},
		"DEADLINE_EXCEEDED":    {domain.ErrorTimeout, true, "Tempo de resposta do Google Ads excedido", ""},
	},
	domain.PlatformTikTok: {
		"42900": {domain.ErrorRateLimit, true, "Limite de requisições do TikTok excedido", "Aguarde a janela de rate limit"},
		"40105": {domain.ErrorAuth, false, "Access token do TikTok inválido", "Gere um novo access token"},
		"40104": {domain.ErrorAuth, false, "Access token do TikTok expirado", "Gere um novo access token"},
		"40100": {domain.ErrorValidation, false, "Parâmetro inválido para o TikTok", "Revise o payload enviado"},
		"40001": {domain.ErrorValidation, false, "Requisição inválida para o TikTok", "Revise o payload enviado"},
		"40300": {domain.ErrorAuth, false, "Permissão negada pelo TikTok", "Revise as permissões do app"},
		"40400": {domain.ErrorNotFound, false, "Recurso não encontrado no TikTok", ""},
		"50000": {domain.ErrorServer, true, "Erro interno do TikTok", ""},
		"50002": {domain.ErrorServer, true, "Serviço do TikTok temporariamente indisponível", ""},
	},
	domain.PlatformSnapchat: {
		"RESOURCE_EXHAUSTED":    {domain.ErrorRateLimit, true, "Limite de requisições do Snapchat excedido", "Aguarde a janela de rate limit"},
		"UNAUTHORIZED":          {domain.ErrorAuth, false, "Credenciais do Snapchat rejeitadas", "Renove o access token"},
		"FORBIDDEN":             {domain.ErrorAuth, false, "Acesso negado pelo Snapchat", "Verifique a organização e a conta de anúncios"},
		"INVALID_ARGUMENT":      {domain.ErrorValidation, false, "Argumento inválido para o Snapchat", "Revise o payload enviado"},
		"NOT_FOUND":             {domain.ErrorNotFound, false, "Recurso não encontrado no Snapchat", ""},
		"INTERNAL_SERVER_ERROR": {domain.ErrorServer, true, "Erro interno do Snapchat", ""},
	},
}
