package document

import (
	"context"
	"sync"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
)

// MemStore is a map-backed Store used by tests and the storage-less dev mode.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ Store = (*MemStore)(nil)

// NewMemStore constructs an empty in-memory document store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

// Get returns the stored document or errs.ErrNotFound.
func (m *MemStore) Get(_ context.Context, kind Kind, userID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[memKey(kind, userID)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

// Set overwrites the stored document wholesale.
func (m *MemStore) Set(_ context.Context, kind Kind, userID string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[memKey(kind, userID)] = append([]byte(nil), doc...)
	return nil
}

func memKey(kind Kind, userID string) string { return string(kind) + "/" + userID }
