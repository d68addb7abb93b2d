// Package limiter implements login throttling with temporary lockouts.
package limiter

import (
	"context"
	"crypto/sha256"
	"time"
)

// Limiter controls sign-in attempts per (email, source).
type Limiter interface {
	// Allow reports whether sign-in is currently allowed and an optional retry-after.
	Allow(ctx context.Context, email string, srcHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful sign-in.
	Success(ctx context.Context, email string, srcHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, email string, srcHash []byte) (bool, time.Duration, error)
}

// HashSource returns a stable hash for a client source identifier (host name,
// address) so raw identifiers are never stored.
func HashSource(src string) []byte {
	h := sha256.Sum256([]byte(src))
	return h[:]
}
