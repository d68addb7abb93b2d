// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// UserRepository provides account storage for the identity provider.
type UserRepository interface {
	// Create inserts a new user; errs.ErrAlreadyExists on a taken email.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by login email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
