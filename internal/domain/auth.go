package domain

import "time"

// AuthState representa o estado de autenticação de uma plataforma,
// criado na primeira autenticação bem-sucedida e mutado pelos refreshes.
// Invariante: IsAuthenticated=true implica ExpiresAt nulo ou no futuro no
// momento da leitura. A expiração é detectada preguiçosamente no read,
// não apenas pelo timer agendado.
type AuthState struct {
	Platform        Platform   `json:"platform"`
	IsAuthenticated bool       `json:"is_authenticated"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	LastRefreshed   time.Time  `json:"last_refreshed"`
}

// Expired informa se o estado já passou da expiração no instante dado
func (s *AuthState) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// Credentials é a união etiquetada de credenciais por plataforma,
// fornecida pelo chamador na construção do adaptador
type Credentials interface {
	CredentialPlatform() Platform
}

// MetaCredentials autentica na Graph API via app id/secret e token de
// acesso trocável por um token de longa duração
type MetaCredentials struct {
	AppID          string `json:"app_id"`
	AppSecret      string `json:"app_secret"`
	AccessToken    string `json:"access_token"`
	LongLivedToken string `json:"long_lived_token,omitempty"`
	AdAccountID    string `json:"ad_account_id"`
	PageID         string `json:"page_id"`
}

func (MetaCredentials) CredentialPlatform() Platform { return PlatformMeta }

// XCredentials seguem o modelo OAuth1: token+secret, sem expiração nem refresh
type XCredentials struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	AccessToken    string `json:"access_token"`
	AccessSecret   string `json:"access_secret"`
	AccountID      string `json:"account_id"`
}

func (XCredentials) CredentialPlatform() Platform { return PlatformX }

// GoogleCredentials usam refresh token + developer token do Google Ads
type GoogleCredentials struct {
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	RefreshToken   string `json:"refresh_token"`
	DeveloperToken string `json:"developer_token"`
	CustomerID     string `json:"customer_id"`
	ManagerID      string `json:"manager_id,omitempty"`
}

func (GoogleCredentials) CredentialPlatform() Platform { return PlatformGoogle }

// TikTokCredentials autenticam na Marketing API com access token + advertiser id
type TikTokCredentials struct {
	AppID        string `json:"app_id"`
	Secret       string `json:"secret"`
	AccessToken  string `json:"access_token"`
	AdvertiserID string `json:"advertiser_id"`
}

func (TikTokCredentials) CredentialPlatform() Platform { return PlatformTikTok }

// SnapchatCredentials autenticam na Marketing API com access token + org id
type SnapchatCredentials struct {
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	OrganizationID string `json:"organization_id"`
	AdAccountID    string `json:"ad_account_id"`
}

func (SnapchatCredentials) CredentialPlatform() Platform { return PlatformSnapchat }
