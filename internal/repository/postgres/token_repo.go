package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// TokenRepo implements repository.RefreshTokenRepository using PostgreSQL.
type TokenRepo struct{ db *DB }

// NewTokenRepo constructs a refresh-token repository.
func NewTokenRepo(db *DB) *TokenRepo { return &TokenRepo{db: db} }

// Insert stores a freshly issued token digest.
func (r *TokenRepo) Insert(ctx context.Context, t *model.RefreshToken) error {
	const q = `
INSERT INTO refresh_tokens (digest, user_id, expires_at)
VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, t.Digest, t.UserID, t.ExpiresAt)
	return err
}

// GetByDigest loads a token by digest.
func (r *TokenRepo) GetByDigest(ctx context.Context, digest []byte) (*model.RefreshToken, error) {
	const q = `
SELECT digest, user_id, expires_at, created_at
FROM refresh_tokens WHERE digest=$1`
	var t model.RefreshToken
	err := r.db.Pool.QueryRow(ctx, q, digest).Scan(&t.Digest, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		// Only a definite miss maps to the sentinel; transient failures
		// must not read as a revoked credential upstream.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByDigest removes a token; unknown digests are ignored.
func (r *TokenRepo) DeleteByDigest(ctx context.Context, digest []byte) error {
	const q = `DELETE FROM refresh_tokens WHERE digest=$1`
	_, err := r.db.Pool.Exec(ctx, q, digest)
	return err
}
