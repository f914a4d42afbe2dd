// Package repository provides PostgreSQL persistence for public profiles.
package repository

import (
	"context"
	"errors"
	"time"

	"lostpaws_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is the public projection of a user profile. Contact details and
// anything else private never pass through this repository.
type Profile struct {
	ID        uuid.UUID
	Username  string
	AvatarURL *string
	JoinedAt  time.Time
}

// ProfileRepository defines read access to public profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// PostgresProfileRepository implements ProfileRepository using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a PostgreSQL-backed profile repository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

var _ ProfileRepository = (*PostgresProfileRepository)(nil)

// GetByID fetches the public fields of one profile.
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx,
		"SELECT id, username, avatar_url, created_at FROM profiles WHERE id = $1", id,
	).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to get profile", err).WithOp("repository.GetByID")
	}
	return &p, nil
}
