package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const oauthTokenURL = "https://oauth2.googleapis.com/token"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Flow devolve o fluxo de autenticação do Google Ads: tanto a autenticação
// inicial quanto o refresh trocam o refresh token por um novo access token
func Flow() auth.Flow {
	return auth.Flow{
		Authenticate: fetchToken,
		Refresh: func(ctx context.Context, creds domain.Credentials, _ string) (string, *time.Time, error) {
			return fetchToken(ctx, creds)
		},
	}
}

func fetchToken(ctx context.Context, creds domain.Credentials) (string, *time.Time, error) {
	googleCreds, ok := creds.(domain.GoogleCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o Google Ads")
	}
	if googleCreds.RefreshToken == "" {
		return "", nil, errors.New("refresh token do Google não pode ser vazio")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", googleCreds.ClientID)
	form.Set("client_secret", googleCreds.ClientSecret)
	form.Set("refresh_token", googleCreds.RefreshToken)

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oauthTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao obter access token do Google")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("erro na troca de token do Google. Status: %d, Resposta: %s", resp.StatusCode, string(body))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, errors.Wrap(err, "erro ao decodificar resposta de token")
	}

	if parsed.AccessToken == "" {
		return "", nil, errors.New("access token retornado pelo Google é vazio")
	}

	expiresAt := time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	return parsed.AccessToken, &expiresAt, nil
}
