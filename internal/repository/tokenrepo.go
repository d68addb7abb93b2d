package repository

import (
	"context"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// RefreshTokenRepository stores digests of issued refresh tokens. Rotation is
// modeled as delete-then-insert inside the provider.
type RefreshTokenRepository interface {
	// Insert stores a freshly issued token digest.
	Insert(ctx context.Context, t *model.RefreshToken) error
	// GetByDigest loads a token by digest; errs.ErrNotFound when unknown.
	GetByDigest(ctx context.Context, digest []byte) (*model.RefreshToken, error)
	// DeleteByDigest removes a token (rotation or revocation). Deleting an
	// unknown digest is not an error.
	DeleteByDigest(ctx context.Context, digest []byte) error
}
