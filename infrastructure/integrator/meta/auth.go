package meta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const oauthBaseURL = "https://graph.facebook.com/v18.0"

// tokenResponse é a resposta da Graph API ao trocar um token
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type debugTokenResponse struct {
	Data struct {
		IsValid   bool  `json:"is_valid"`
		ExpiresAt int64 `json:"expires_at"`
	} `json:"data"`
}

// Flow devolve o fluxo de autenticação do Meta: a autenticação troca o
// token de curta duração por um de longa duração; o refresh valida o token
// corrente via debug_token e faz nova troca para estender a expiração
func Flow() auth.Flow {
	return auth.Flow{
		Authenticate: authenticate,
		Refresh:      refresh,
	}
}

func authenticate(ctx context.Context, creds domain.Credentials) (string, *time.Time, error) {
	metaCreds, ok := creds.(domain.MetaCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o Meta")
	}

	seed := metaCreds.LongLivedToken
	if seed == "" {
		seed = metaCreds.AccessToken
	}
	if seed == "" {
		return "", nil, errors.New("token de acesso do Meta não pode ser vazio")
	}

	return exchangeToken(ctx, seed, metaCreds.AppID, metaCreds.AppSecret)
}

func refresh(ctx context.Context, creds domain.Credentials, currentToken string) (string, *time.Time, error) {
	metaCreds, ok := creds.(domain.MetaCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o Meta")
	}

	valid, err := checkTokenValidity(ctx, currentToken, metaCreds.AppID, metaCreds.AppSecret)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao verificar validade do token de longa duração")
	}
	if !valid {
		return "", nil, errors.New("o token de acesso expirou e não pode ser renovado automaticamente; é necessário reautorizar o aplicativo via OAuth")
	}

	return exchangeToken(ctx, currentToken, metaCreds.AppID, metaCreds.AppSecret)
}

// exchangeToken obtém um token de longa duração a partir de um token existente
func exchangeToken(ctx context.Context, token, appID, appSecret string) (string, *time.Time, error) {
	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", appID)
	params.Add("client_secret", appSecret)
	params.Add("fb_exchange_token", token)

	body, err := oauthGet(ctx, oauthBaseURL+"/oauth/access_token?"+params.Encode())
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao obter token de longa duração")
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, errors.Wrap(err, "erro ao decodificar resposta de token")
	}

	if parsed.AccessToken == "" {
		return "", nil, errors.New("token retornado pela API é vazio")
	}

	expiresAt := calculateExpiration(parsed.ExpiresIn)
	return parsed.AccessToken, &expiresAt, nil
}

// checkTokenValidity consulta o endpoint debug_token para saber se o token
// corrente ainda é válido
func checkTokenValidity(ctx context.Context, token, appID, appSecret string) (bool, error) {
	params := url.Values{}
	params.Add("input_token", token)
	params.Add("access_token", appID+"|"+appSecret)

	body, err := oauthGet(ctx, oauthBaseURL+"/debug_token?"+params.Encode())
	if err != nil {
		return false, err
	}

	var parsed debugTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, errors.Wrap(err, "erro ao decodificar resposta do debug_token")
	}

	return parsed.Data.IsValid, nil
}

func oauthGet(ctx context.Context, requestURL string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("erro na chamada OAuth do Meta. Status: %d, Resposta: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// calculateExpiration calcula a expiração com uma folga de um dia para
// renovar antes da expiração real
func calculateExpiration(expiresIn int64) time.Time {
	buffer := int64(24 * 60 * 60)
	safe := expiresIn - buffer
	if safe < 0 {
		safe = expiresIn / 2
	}
	return time.Now().Add(time.Duration(safe) * time.Second)
}
