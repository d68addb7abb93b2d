package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PG is a PostgreSQL-backed limiter with a sliding failure window and lockout.
type PG struct {
	pool     pgxQuerier
	window   time.Duration
	maxFails int
	blockFor time.Duration
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Limiter = (*PG)(nil)

// NewPG constructs a PostgreSQL-backed limiter. The querier is satisfied by
// *pgxpool.Pool and by pgxmock in tests.
func NewPG(pool pgxQuerier, window time.Duration, maxFails int, blockFor time.Duration) *PG {
	return &PG{pool: pool, window: window, maxFails: maxFails, blockFor: blockFor}
}

// Allow reports whether sign-in is currently allowed.
func (l *PG) Allow(ctx context.Context, email string, srcHash []byte) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM login_attempts WHERE email=$1 AND src_hash=$2`
	var blockedUntil *time.Time
	err := l.pool.QueryRow(ctx, q, email, srcHash).Scan(&blockedUntil)
	switch {
	case err == nil:
		if blockedUntil != nil && blockedUntil.After(time.Now()) {
			return false, time.Until(*blockedUntil), nil
		}
		return true, 0, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	default:
		return false, 0, err
	}
}

// Success drops the attempt counter.
func (l *PG) Success(ctx context.Context, email string, srcHash []byte) error {
	const q = `DELETE FROM login_attempts WHERE email=$1 AND src_hash=$2`
	_, err := l.pool.Exec(ctx, q, email, srcHash)
	return err
}

// Failure records a failed attempt. Counters older than the window restart at
// one; reaching maxFails places a block for blockFor.
func (l *PG) Failure(ctx context.Context, email string, srcHash []byte) (bool, time.Duration, error) {
	const upsert = `
INSERT INTO login_attempts (email, src_hash, fails, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (email, src_hash) DO UPDATE
SET fails = CASE WHEN login_attempts.updated_at < $3 THEN 1 ELSE login_attempts.fails + 1 END,
    updated_at = now()
RETURNING fails`
	var fails int
	cutoff := time.Now().Add(-l.window)
	if err := l.pool.QueryRow(ctx, upsert, email, srcHash, cutoff).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.maxFails {
		return false, 0, nil
	}
	const block = `UPDATE login_attempts SET blocked_until=$3 WHERE email=$1 AND src_hash=$2`
	until := time.Now().Add(l.blockFor)
	if _, err := l.pool.Exec(ctx, block, email, srcHash, until); err != nil {
		return false, 0, err
	}
	return true, l.blockFor, nil
}
