package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Fernando9200/sistema-lembretes/internal/document"
	"github.com/Fernando9200/sistema-lembretes/internal/errs"
)

// DocumentRepo implements document.Store using PostgreSQL. One JSONB row per
// (kind, user); writes are wholesale upserts, matching the single-document
// semantics of the sync layer.
type DocumentRepo struct{ db *DB }

var _ document.Store = (*DocumentRepo)(nil)

// NewDocumentRepo constructs a document repository.
func NewDocumentRepo(db *DB) *DocumentRepo { return &DocumentRepo{db: db} }

// Get returns the stored document for (kind, user), errs.ErrNotFound when absent.
func (r *DocumentRepo) Get(ctx context.Context, kind document.Kind, userID string) ([]byte, error) {
	const q = `SELECT doc FROM documents WHERE kind=$1 AND user_id=$2`
	var doc []byte
	err := r.db.Pool.QueryRow(ctx, q, string(kind), userID).Scan(&doc)
	if err != nil {
		// A transient failure must not read as "no document yet": the
		// caller would initialize an empty collection over real data.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Set overwrites the stored document wholesale.
func (r *DocumentRepo) Set(ctx context.Context, kind document.Kind, userID string, doc []byte) error {
	const q = `
INSERT INTO documents (kind, user_id, doc, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (kind, user_id) DO UPDATE SET doc=EXCLUDED.doc, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, string(kind), userID, doc)
	return err
}
