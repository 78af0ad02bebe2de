package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
)

type identityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) repository.IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) CreateIdentity(
	ctx context.Context,
	identity *model.Identity,
) (*model.Identity, error) {
	now := time.Now().UTC()
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.CreatedAt = now
	identity.UpdatedAt = now
	if identity.LastLoginAt.IsZero() {
		identity.LastLoginAt = now
	}

	const query = `INSERT INTO identities (id, user_id, provider_id, provider, email, last_login_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.UserID,
		identity.ProviderID,
		identity.Provider,
		identity.Email,
		identity.LastLoginAt,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrIdentityAlreadyExists
		}
		return nil, err
	}

	return identity, nil
}

func (r *identityRepository) GetIdentityByProvider(
	ctx context.Context,
	providerID string,
	provider string,
) (*model.Identity, error) {
	const query = `SELECT id, user_id, provider_id, provider, email, last_login_at, created_at, updated_at
        FROM identities WHERE provider_id = $1 AND provider = $2`

	rows, err := r.pool.Query(ctx, query, providerID, provider)
	if err != nil {
		return nil, err
	}

	identity, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Identity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrIdentityNotFound
		}
		return nil, err
	}

	return identity, nil
}

func (r *identityRepository) UpdateLastLogin(ctx context.Context, userID string, provider string) error {
	now := time.Now().UTC()
	tag, err := r.pool.Exec(ctx,
		"UPDATE identities SET last_login_at = $1, updated_at = $1 WHERE user_id = $2 AND provider = $3",
		now, userID, provider,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}
