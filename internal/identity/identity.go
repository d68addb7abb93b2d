// Package identity defines the identity service contract and a token-issuing
// provider implementation backed by the repository layer.
package identity

import (
	"context"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// Provider is the identity service the session gate talks to. Error kinds
// surfaced by Refresh: errs.ErrCredentialExpired and errs.ErrCredentialInvalid
// mean the stored credential is dead; anything else is transient and must not
// tear the session down.
type Provider interface {
	// Register creates a new account.
	Register(ctx context.Context, email, password, displayName string) (string, error)
	// Authenticate verifies credentials and issues a fresh credential pair.
	Authenticate(ctx context.Context, email, password string) (*model.User, model.Credential, error)
	// Refresh exchanges a refresh token for a new credential pair, rotating
	// the refresh token.
	Refresh(ctx context.Context, refreshToken string) (model.Credential, error)
	// Revoke invalidates a refresh token on sign-out. Unknown tokens are ignored.
	Revoke(ctx context.Context, refreshToken string) error
}
