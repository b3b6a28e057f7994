package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/ad-gateway-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

const platformTokensTable = "platform_tokens"

// postgresTokenStore persiste tokens de plataforma no Postgres, um registro
// por plataforma. Implementa auth.Store.
type postgresTokenStore struct {
	conn *postgres.Connection
}

// NewPostgresTokenStore cria o store de tokens sobre a conexão Postgres
func NewPostgresTokenStore(conn *postgres.Connection) auth.Store {
	return &postgresTokenStore{
		conn: conn,
	}
}

func (s *postgresTokenStore) Save(_ context.Context, platform domain.Platform, token string, state *domain.AuthState) error {
	queryBuilder := squirrel.
		Insert(platformTokensTable).
		Columns("platform", "token", "is_authenticated", "expires_at", "last_refreshed", "updated_at").
		Values(platform.String(), token, state.IsAuthenticated, state.ExpiresAt, state.LastRefreshed, time.Now()).
		Suffix(`ON CONFLICT (platform) DO UPDATE SET
			token = EXCLUDED.token,
			is_authenticated = EXCLUDED.is_authenticated,
			expires_at = EXCLUDED.expires_at,
			last_refreshed = EXCLUDED.last_refreshed,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar)

	tokenSQL, tokenArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(tokenSQL, tokenArgs...)
	return err
}

func (s *postgresTokenStore) Load(_ context.Context, platform domain.Platform) (string, *domain.AuthState, error) {
	queryBuilder := squirrel.
		Select("token", "is_authenticated", "expires_at", "last_refreshed").
		From(platformTokensTable).
		Where(squirrel.Eq{"platform": platform.String()}).
		PlaceholderFormat(squirrel.Dollar)

	tokenSQL, tokenArgs, err := queryBuilder.ToSql()
	if err != nil {
		return "", nil, err
	}

	var (
		token     string
		state     = domain.AuthState{Platform: platform}
		expiresAt sql.NullTime
	)
	err = s.conn.QueryRow(tokenSQL, tokenArgs...).Scan(
		&token,
		&state.IsAuthenticated,
		&expiresAt,
		&state.LastRefreshed,
	)
	if err == sql.ErrNoRows {
		return "", nil, auth.ErrTokenNotFound
	}
	if err != nil {
		return "", nil, err
	}

	if expiresAt.Valid {
		state.ExpiresAt = &expiresAt.Time
	}

	return token, &state, nil
}

func (s *postgresTokenStore) Delete(_ context.Context, platform domain.Platform) error {
	queryBuilder := squirrel.
		Delete(platformTokensTable).
		Where(squirrel.Eq{"platform": platform.String()}).
		PlaceholderFormat(squirrel.Dollar)

	tokenSQL, tokenArgs, err := queryBuilder.ToSql()
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(tokenSQL, tokenArgs...)
	return err
}
