package snapchat

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

const oauthTokenURL = "https://accounts.snapchat.com/login/oauth2/access_token"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Flow devolve o fluxo de autenticação do Snapchat: tanto a autenticação
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
	snapCreds, ok := creds.(domain.SnapchatCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o Snapchat")
	}
	if snapCreds.RefreshToken == "" {
		return "", nil, errors.New("refresh token do Snapchat não pode ser vazio")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", snapCreds.ClientID)
	form.Set("client_secret", snapCreds.ClientSecret)
	form.Set("refresh_token", snapCreds.RefreshToken)

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oauthTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao obter access token do Snapchat")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("erro na troca de token do Snapchat. Status: %d, Resposta: %s", resp.StatusCode, string(body))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, errors.Wrap(err, "erro ao decodificar resposta de token")
	}

	if parsed.AccessToken == "" {
		return "", nil, errors.New("access token retornado pelo Snapchat é vazio")
	}

	expiresAt := time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	return parsed.AccessToken, &expiresAt, nil
}
