package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-gateway-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/events"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/google"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/pipeline"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/snapchat"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/tiktok"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/transport"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/x"
	"github.com/vfg2006/ad-gateway-api/infrastructure/repository"
	"github.com/vfg2006/ad-gateway-api/internal/api"
	"github.com/vfg2006/ad-gateway-api/internal/api/handler"
	"github.com/vfg2006/ad-gateway-api/internal/config"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/internal/usecases/advertising"
	"github.com/vfg2006/ad-gateway-api/internal/usecases/authenticating"
	"github.com/vfg2006/ad-gateway-api/pkg/log"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	authenticator := authenticating.NewService(userRepo, cfg)

	emitter := events.NewLogEmitter(log.L)
	tokenStore := buildTokenStore(cfg, pgConn)

	// Estratégias das plataformas habilitadas na configuração
	strategies := make(map[domain.Platform]*integrator.Strategy)
	credentials := make(map[domain.Platform]domain.Credentials)

	if cfg.Meta.Enabled {
		strategies[domain.PlatformMeta] = meta.NewStrategy()
		credentials[domain.PlatformMeta] = cfg.MetaCredentials()
	}
	if cfg.X.Enabled {
		strategies[domain.PlatformX] = x.NewStrategy()
		credentials[domain.PlatformX] = cfg.XCredentials()
	}
	if cfg.Google.Enabled {
		strategies[domain.PlatformGoogle] = google.NewStrategy()
		credentials[domain.PlatformGoogle] = cfg.GoogleCredentials()
	}
	if cfg.TikTok.Enabled {
		strategies[domain.PlatformTikTok] = tiktok.NewStrategy()
		credentials[domain.PlatformTikTok] = cfg.TikTokCredentials()
	}
	if cfg.Snapchat.Enabled {
		strategies[domain.PlatformSnapchat] = snapchat.NewStrategy()
		credentials[domain.PlatformSnapchat] = cfg.SnapchatCredentials()
	}

	flows := make(map[domain.Platform]auth.Flow, len(strategies))
	for platform, strategy := range strategies {
		flows[platform] = strategy.Flow
	}

	authManager := auth.NewManager(tokenStore, flows, emitter, log.L)
	defer authManager.Shutdown()

	// Um adaptador por plataforma habilitada, todos sobre o mesmo pipeline
	profiles := transport.DefaultProfiles()
	adapters := make([]advertising.AdOperations, 0, len(strategies))
	for platform, strategy := range strategies {
		pl := pipeline.Default(log.L, emitter)
		client := transport.NewClient(profiles[platform], pl, log.L)
		adapter := integrator.NewAdapter(strategy, client, authManager, credentials[platform], emitter, log.L)
		adapters = append(adapters, adapter)

		if err := adapter.Initialize(ctx); err != nil {
			logrus.WithError(err).Warnf("Autenticação inicial da plataforma %s falhou", platform)
		}
	}

	advertiser := advertising.NewService(log.L, adapters...)
	platformAuth := handler.NewPlatformAuthenticator(authManager, credentials)

	server, err := api.New(cfg, advertiser, authenticator, platformAuth)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// buildTokenStore escolhe o backend de persistência de tokens conforme a
// configuração
func buildTokenStore(cfg *config.Config, pgConn *postgres.Connection) auth.Store {
	switch cfg.App.TokenStore {
	case "postgres":
		logrus.Info("Usando Postgres como store de tokens de plataforma")
		return repository.NewPostgresTokenStore(pgConn)
	case "redis":
		logrus.Info("Usando Redis como store de tokens de plataforma")
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return repository.NewRedisTokenStore(client)
	default:
		logrus.Info("Usando memória como store de tokens de plataforma")
		return auth.NewMemoryStore()
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
