package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Redis     Redis     `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	X         X         `mapstructure:",squash"`
	Google    Google    `mapstructure:",squash"`
	TikTok    TikTok    `mapstructure:",squash"`
	Snapchat  Snapchat  `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	// TokenStore escolhe o backend de persistência de tokens: memory,
	// postgres ou redis
	TokenStore string `mapstructure:"token_store"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Meta struct {
	Enabled        bool   `mapstructure:"meta_enabled"`
	AppID          string `mapstructure:"meta_app_id"`
	AppSecret      string `mapstructure:"meta_app_secret"`
	AccessToken    string `mapstructure:"meta_access_token"`
	LongLivedToken string `mapstructure:"meta_long_lived_token"`
	AdAccountID    string `mapstructure:"meta_ad_account_id"`
	PageID         string `mapstructure:"meta_page_id"`
}

type X struct {
	Enabled        bool   `mapstructure:"x_enabled"`
	ConsumerKey    string `mapstructure:"x_consumer_key"`
	ConsumerSecret string `mapstructure:"x_consumer_secret"`
	AccessToken    string `mapstructure:"x_access_token"`
	AccessSecret   string `mapstructure:"x_access_secret"`
	AccountID      string `mapstructure:"x_account_id"`
}

type Google struct {
	Enabled        bool   `mapstructure:"google_enabled"`
	ClientID       string `mapstructure:"google_client_id"`
	ClientSecret   string `mapstructure:"google_client_secret"`
	RefreshToken   string `mapstructure:"google_refresh_token"`
	DeveloperToken string `mapstructure:"google_developer_token"`
	CustomerID     string `mapstructure:"google_customer_id"`
	ManagerID      string `mapstructure:"google_manager_id"`
}

type TikTok struct {
	Enabled      bool   `mapstructure:"tiktok_enabled"`
	AppID        string `mapstructure:"tiktok_app_id"`
	Secret       string `mapstructure:"tiktok_secret"`
	AccessToken  string `mapstructure:"tiktok_access_token"`
	AdvertiserID string `mapstructure:"tiktok_advertiser_id"`
}

type Snapchat struct {
	Enabled        bool   `mapstructure:"snapchat_enabled"`
	ClientID       string `mapstructure:"snapchat_client_id"`
	ClientSecret   string `mapstructure:"snapchat_client_secret"`
	AccessToken    string `mapstructure:"snapchat_access_token"`
	RefreshToken   string `mapstructure:"snapchat_refresh_token"`
	OrganizationID string `mapstructure:"snapchat_organization_id"`
	AdAccountID    string `mapstructure:"snapchat_ad_account_id"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/adgateway")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("TOKEN_STORE", "memory")

	viper.SetDefault("META_ENABLED", false)
	viper.SetDefault("X_ENABLED", false)
	viper.SetDefault("GOOGLE_ENABLED", false)
	viper.SetDefault("TIKTOK_ENABLED", false)
	viper.SetDefault("SNAPCHAT_ENABLED", false)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// MetaCredentials monta as credenciais do Meta a partir da configuração
func (c *Config) MetaCredentials() domain.MetaCredentials {
	return domain.MetaCredentials{
		AppID:          c.Meta.AppID,
		AppSecret:      c.Meta.AppSecret,
		AccessToken:    c.Meta.AccessToken,
		LongLivedToken: c.Meta.LongLivedToken,
		AdAccountID:    c.Meta.AdAccountID,
		PageID:         c.Meta.PageID,
	}
}

// XCredentials monta as credenciais do X a partir da configuração
func (c *Config) XCredentials() domain.XCredentials {
	return domain.XCredentials{
		ConsumerKey:    c.X.ConsumerKey,
		ConsumerSecret: c.X.ConsumerSecret,
		AccessToken:    c.X.AccessToken,
		AccessSecret:   c.X.AccessSecret,
		AccountID:      c.X.AccountID,
	}
}

// GoogleCredentials monta as credenciais do Google Ads a partir da configuração
func (c *Config) GoogleCredentials() domain.GoogleCredentials {
	return domain.GoogleCredentials{
		ClientID:       c.Google.ClientID,
		ClientSecret:   c.Google.ClientSecret,
		RefreshToken:   c.Google.RefreshToken,
		DeveloperToken: c.Google.DeveloperToken,
		CustomerID:     c.Google.CustomerID,
		ManagerID:      c.Google.ManagerID,
	}
}

// TikTokCredentials monta as credenciais do TikTok a partir da configuração
func (c *Config) TikTokCredentials() domain.TikTokCredentials {
	return domain.TikTokCredentials{
		AppID:        c.TikTok.AppID,
		Secret:       c.TikTok.Secret,
		AccessToken:  c.TikTok.AccessToken,
		AdvertiserID: c.TikTok.AdvertiserID,
	}
}

// SnapchatCredentials monta as credenciais do Snapchat a partir da configuração
func (c *Config) SnapchatCredentials() domain.SnapchatCredentials {
	return domain.SnapchatCredentials{
		ClientID:       c.Snapchat.ClientID,
		ClientSecret:   c.Snapchat.ClientSecret,
		AccessToken:    c.Snapchat.AccessToken,
		RefreshToken:   c.Snapchat.RefreshToken,
		OrganizationID: c.Snapchat.OrganizationID,
		AdAccountID:    c.Snapchat.AdAccountID,
	}
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
