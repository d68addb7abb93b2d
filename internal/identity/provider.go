package identity

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/Fernando9200/sistema-lembretes/internal/crypto"
	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/limiter"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
	"github.com/Fernando9200/sistema-lembretes/internal/repository"
)

// AuthProvider implements Provider with Argon2id password verification, HS256
// access tokens and rotating opaque refresh tokens.
type AuthProvider struct {
	users      repository.UserRepository
	tokens     repository.RefreshTokenRepository
	lim        limiter.Limiter // optional
	src        string          // limiter source label (client host)
	signKey    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var _ Provider = (*AuthProvider)(nil)

// NewAuthProvider constructs the provider. lim may be nil to disable throttling.
func NewAuthProvider(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	lim limiter.Limiter,
	src string,
	signKey []byte,
	accessTTL, refreshTTL time.Duration,
) *AuthProvider {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthProvider{
		users: users, tokens: tokens, lim: lim, src: src,
		signKey: signKey, accessTTL: accessTTL, refreshTTL: refreshTTL,
	}
}

// Register creates a new account with per-user salt.
func (p *AuthProvider) Register(ctx context.Context, email, password, displayName string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("validation: empty email/password")
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	salt, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return "", err
	}
	u := &model.User{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
		PwdHash:     pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth:    salt,
	}
	if err := p.users.Create(ctx, u); err != nil {
		return "", err
	}
	return uid.String(), nil
}

// Authenticate verifies credentials under the rate limiter and issues a
// credential pair on success.
func (p *AuthProvider) Authenticate(ctx context.Context, email, password string) (*model.User, model.Credential, error) {
	srcHash := limiter.HashSource(p.src)
	if p.lim != nil {
		allowed, _, err := p.lim.Allow(ctx, email, srcHash)
		if err != nil {
			return nil, model.Credential{}, err
		}
		if !allowed {
			return nil, model.Credential{}, errs.ErrRateLimited
		}
	}

	u, err := p.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if p.lim != nil {
			if blocked, _, ferr := p.lim.Failure(ctx, email, srcHash); ferr == nil && blocked {
				return nil, model.Credential{}, errs.ErrRateLimited
			}
		}
		// lookup errors are masked so user existence is not revealed
		return nil, model.Credential{}, errs.ErrUnauthorized
	}

	if p.lim != nil {
		_ = p.lim.Success(ctx, email, srcHash)
	}

	cred, err := p.issueCredential(ctx, u.ID)
	if err != nil {
		return nil, model.Credential{}, err
	}
	return u, cred, nil
}

// Refresh rotates the refresh token and issues a new credential pair.
func (p *AuthProvider) Refresh(ctx context.Context, refreshToken string) (model.Credential, error) {
	digest := pkgcrypto.DigestToken(refreshToken)
	stored, err := p.tokens.GetByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Credential{}, errs.ErrCredentialInvalid
		}
		return model.Credential{}, err // transient (store unreachable etc.)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = p.tokens.DeleteByDigest(ctx, digest)
		return model.Credential{}, errs.ErrCredentialExpired
	}
	if err := p.tokens.DeleteByDigest(ctx, digest); err != nil {
		return model.Credential{}, err
	}
	return p.issueCredential(ctx, stored.UserID)
}

// Revoke drops the refresh token; unknown tokens are ignored.
func (p *AuthProvider) Revoke(ctx context.Context, refreshToken string) error {
	return p.tokens.DeleteByDigest(ctx, pkgcrypto.DigestToken(refreshToken))
}

// issueCredential creates a signed HS256 access token plus an opaque refresh
// token whose digest is stored with its own expiry.
func (p *AuthProvider) issueCredential(ctx context.Context, userID uuid.UUID) (model.Credential, error) {
	now := time.Now()
	exp := now.Add(p.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signKey)
	if err != nil {
		return model.Credential{}, err
	}

	raw, err := pkgcrypto.RandBytes(32)
	if err != nil {
		return model.Credential{}, err
	}
	refresh := hex.EncodeToString(raw)
	if err := p.tokens.Insert(ctx, &model.RefreshToken{
		Digest:    pkgcrypto.DigestToken(refresh),
		UserID:    userID,
		ExpiresAt: now.Add(p.refreshTTL),
	}); err != nil {
		return model.Credential{}, err
	}

	return model.Credential{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}
