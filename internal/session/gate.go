// Package session wraps the identity provider with client-side session state:
// the current user, a proactive pre-write credential check and the shared
// re-authentication flag the UI watches.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/identity"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// Gate holds the signed-in identity and its credential. All methods are safe
// for concurrent use.
type Gate struct {
	provider identity.Provider
	log      *zap.Logger

	mu       sync.Mutex
	user     *model.User
	cred     model.Credential
	reauth   bool
	watchers []func(*model.User)
}

// New constructs a signed-out gate.
func New(provider identity.Provider, log *zap.Logger) *Gate {
	return &Gate{provider: provider, log: log}
}

// OnChange registers a callback invoked after every sign-in and sign-out with
// the new current user (nil when signed out). Callbacks run outside the lock.
func (g *Gate) OnChange(fn func(*model.User)) {
	g.mu.Lock()
	g.watchers = append(g.watchers, fn)
	g.mu.Unlock()
}

// CurrentUser returns the signed-in identity or nil.
func (g *Gate) CurrentUser() *model.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// SignIn authenticates interactively collected credentials. Failures are
// logged and propagated; session state stays signed out.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	user, cred, err := g.provider.Authenticate(ctx, email, password)
	if err != nil {
		g.log.Error("sign-in failed", zap.String("email", email), zap.Error(err))
		return err
	}
	g.mu.Lock()
	g.user = user
	g.cred = cred
	g.reauth = false
	g.mu.Unlock()
	g.log.Info("signed in", zap.String("user", user.ID.String()))
	g.notify(user)
	return nil
}

// SignOut revokes the refresh token (best effort) and clears session state.
// In-flight saves are not cancelled; they complete against the old credential.
func (g *Gate) SignOut(ctx context.Context) {
	g.mu.Lock()
	cred := g.cred
	signedIn := g.user != nil
	g.user = nil
	g.cred = model.Credential{}
	g.mu.Unlock()
	if !signedIn {
		return
	}
	if cred.RefreshToken != "" {
		if err := g.provider.Revoke(ctx, cred.RefreshToken); err != nil {
			g.log.Warn("refresh token revocation failed", zap.Error(err))
		}
	}
	g.log.Info("signed out")
	g.notify(nil)
}

// IsSessionActive force-refreshes the current credential and reports whether
// a write can be trusted right now. A dead credential (expired or revoked)
// additionally signs the user out locally; transient failures do not, so a
// false return never means "definitely signed out".
func (g *Gate) IsSessionActive(ctx context.Context) bool {
	g.mu.Lock()
	signedIn := g.user != nil
	refresh := g.cred.RefreshToken
	g.mu.Unlock()
	if !signedIn {
		return false
	}

	cred, err := g.provider.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, errs.ErrCredentialExpired) || errors.Is(err, errs.ErrCredentialInvalid) {
			g.log.Error("session credential is dead, signing out locally", zap.Error(err))
			g.signOutLocally()
			return false
		}
		g.log.Warn("credential refresh failed (treating as transient)", zap.Error(err))
		return false
	}

	g.mu.Lock()
	// The refresh rotated the token; a stale gate state here means a
	// concurrent sign-out won, keep it.
	if g.user != nil {
		g.cred = cred
	}
	g.mu.Unlock()
	return true
}

// RequestReauth raises the shared flag asking the UI for a blocking
// re-authentication prompt.
func (g *Gate) RequestReauth() {
	g.mu.Lock()
	g.reauth = true
	g.mu.Unlock()
}

// ReauthRequested reports whether the UI should present the prompt.
func (g *Gate) ReauthRequested() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reauth
}

// signOutLocally clears session state without talking to the provider; used
// when the stored credential is already dead.
func (g *Gate) signOutLocally() {
	g.mu.Lock()
	wasSignedIn := g.user != nil
	g.user = nil
	g.cred = model.Credential{}
	g.mu.Unlock()
	if wasSignedIn {
		g.notify(nil)
	}
}

func (g *Gate) notify(u *model.User) {
	g.mu.Lock()
	watchers := append(([]func(*model.User))(nil), g.watchers...)
	g.mu.Unlock()
	for _, fn := range watchers {
		fn(u)
	}
}
