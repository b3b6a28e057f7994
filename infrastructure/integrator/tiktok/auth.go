package tiktok

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const advertiserInfoURL = "https://business-api.tiktok.com/open_api/v1.3/advertiser/info/"

type advertiserInfoResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Flow devolve o fluxo de autenticação do TikTok. O access token de longa
// duração não expira sozinho, então a autenticação apenas o valida contra a
// Business API e o refresh revalida o mesmo token.
func Flow() auth.Flow {
	return auth.Flow{
		Authenticate: validateToken,
		Refresh: func(ctx context.Context, creds domain.Credentials, _ string) (string, *time.Time, error) {
			return validateToken(ctx, creds)
		},
	}
}

func validateToken(ctx context.Context, creds domain.Credentials) (string, *time.Time, error) {
	tiktokCreds, ok := creds.(domain.TikTokCredentials)
	if !ok {
		return "", nil, errors.New("credenciais incompatíveis com o TikTok")
	}
	if tiktokCreds.AccessToken == "" {
		return "", nil, errors.New("access token do TikTok não pode ser vazio")
	}
	if tiktokCreds.AdvertiserID == "" {
		return "", nil, errors.New("advertiser id do TikTok não pode ser vazio")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	endpoint := fmt.Sprintf("%s?advertiser_ids=[\"%s\"]", advertiserInfoURL, tiktokCreds.AdvertiserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Access-Token", tiktokCreds.AccessToken)

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao validar access token do TikTok")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao ler resposta")
	}

	var parsed advertiserInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, errors.Wrap(err, "erro ao decodificar resposta de validação")
	}

	// A Business API devolve HTTP 200 mesmo para falhas; o code do corpo é
	// a fonte de verdade
	if parsed.Code != 0 {
		return "", nil, fmt.Errorf("access token do TikTok rejeitado. Code: %d, Mensagem: %s", parsed.Code, parsed.Message)
	}

	// Sem expiração: o token de longa duração vale até ser revogado
	return tiktokCreds.AccessToken, nil, nil
}
