package repository

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const tokenKeyPrefix = "adgateway:token:"

type tokenRecord struct {
	Token string           `json:"token"`
	State domain.AuthState `json:"state"`
}

// redisTokenStore persiste tokens de plataforma no Redis, uma chave por
// plataforma. Implementa auth.Store.
type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore cria o store de tokens sobre o cliente Redis
func NewRedisTokenStore(client *redis.Client) auth.Store {
	return &redisTokenStore{
		client: client,
	}
}

func tokenKey(platform domain.Platform) string {
	return tokenKeyPrefix + platform.String()
}

func (s *redisTokenStore) Save(ctx context.Context, platform domain.Platform, token string, state *domain.AuthState) error {
	payload, err := json.Marshal(tokenRecord{Token: token, State: *state})
	if err != nil {
		return errors.Wrap(err, "erro ao serializar token para o Redis")
	}

	// Sem TTL: a expiração do token é controlada pelo AuthState, não pela chave
	return s.client.Set(ctx, tokenKey(platform), payload, 0).Err()
}

func (s *redisTokenStore) Load(ctx context.Context, platform domain.Platform) (string, *domain.AuthState, error) {
	payload, err := s.client.Get(ctx, tokenKey(platform)).Bytes()
	if err == redis.Nil {
		return "", nil, auth.ErrTokenNotFound
	}
	if err != nil {
		return "", nil, errors.Wrap(err, "erro ao ler token do Redis")
	}

	var record tokenRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return "", nil, errors.Wrap(err, "erro ao desserializar token do Redis")
	}

	return record.Token, &record.State, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, platform domain.Platform) error {
	return s.client.Del(ctx, tokenKey(platform)).Err()
}
