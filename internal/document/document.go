// Package document defines the remote document store contract and the wire
// codec between in-memory collections and stored documents.
package document

import "context"

// Kind names a per-user document. Each (kind, user) pair maps to exactly one
// stored document that is always read and written wholesale.
type Kind string

const (
	KindReminders  Kind = "reminders"
	KindSavedItems Kind = "savedItems"
)

// Store is the opaque key-value document API. Get returns errs.ErrNotFound
// when no document exists for the key; Set overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, kind Kind, userID string) ([]byte, error)
	Set(ctx context.Context, kind Kind, userID string, doc []byte) error
}
