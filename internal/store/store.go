// Package store implements the in-memory record collection shared by both
// data domains. All transitions are synchronous and atomic; persistence is
// someone else's job (see internal/autosave).
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// State is the observable client state for one collection.
type State[R model.Record] struct {
	// Data is absent before the first load and after sign-out.
	Data    *model.Collection[R]
	Loading bool
	// NeedsSave is the dirty bit: set by every mutation, cleared only by a
	// confirmed successful remote write (MarkSaved) or a fresh Load.
	NeedsSave bool
	// Version counts state changes. A saver passes the version it
	// serialized back to MarkSaved so that a mutation racing the write
	// keeps the dirty bit set.
	Version uint64
}

// Hooks inject the variant-specific parts of a transition. A nil hook is the
// identity.
type Hooks[R model.Record] struct {
	// OnUpdate rewrites a caller-supplied replacement record before it lands,
	// e.g. forcing lastModified to now regardless of what the caller passed.
	OnUpdate func(r R, now time.Time) R
	// OnToggle flips the record's boolean flag (isCompleted / isFavorite).
	OnToggle func(r R, now time.Time) R
}

// Store holds one collection's state and applies pure transitions to it.
// Mutations while Data is absent are silently dropped, never queued.
type Store[R model.Record] struct {
	mu    sync.Mutex
	state State[R]
	hooks Hooks[R]
	// signal coalesces change notifications for the autosave scheduler; a
	// full channel already implies "re-evaluate", so sends never block.
	signal chan struct{}
}

// New constructs a store in the pre-load state {data absent, loading}.
func New[R model.Record](hooks Hooks[R]) *Store[R] {
	return &Store[R]{
		state:  State[R]{Data: nil, Loading: true, NeedsSave: false},
		hooks:  hooks,
		signal: make(chan struct{}, 1),
	}
}

// Changes returns a channel that receives a token after every state change.
// Tokens are coalesced; a receiver must re-read Snapshot, not count them.
func (s *Store[R]) Changes() <-chan struct{} { return s.signal }

func (s *Store[R]) notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// StartLoading flags a remote load in progress.
func (s *Store[R]) StartLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
	s.notify()
}

// Load replaces the collection wholesale and clears loading and the dirty
// bit unconditionally. Passing nil resets to the signed-out state.
func (s *Store[R]) Load(c *model.Collection[R]) {
	s.mu.Lock()
	s.state = State[R]{Data: c, Loading: false, NeedsSave: false, Version: s.state.Version + 1}
	s.mu.Unlock()
	s.notify()
}

// Add inserts the record at the head of the sequence and sets the dirty bit.
func (s *Store[R]) Add(r R) {
	s.mutate(func(c *model.Collection[R]) {
		c.Records = append([]R{r}, c.Records...)
	})
}

// Update replaces the record with the same id, after passing the replacement
// through the OnUpdate hook. An unknown id still sets the dirty bit.
func (s *Store[R]) Update(r R) {
	now := time.Now()
	if s.hooks.OnUpdate != nil {
		r = s.hooks.OnUpdate(r, now)
	}
	s.mutate(func(c *model.Collection[R]) {
		for i := range c.Records {
			if c.Records[i].RecordID() == r.RecordID() {
				c.Records[i] = r
				return
			}
		}
	})
}

// Remove deletes the record by id. Removing a non-existent id is a no-op on
// the sequence, not an error.
func (s *Store[R]) Remove(id string) {
	s.mutate(func(c *model.Collection[R]) {
		for i := range c.Records {
			if c.Records[i].RecordID() == id {
				c.Records = append(c.Records[:i:i], c.Records[i+1:]...)
				return
			}
		}
	})
}

// Toggle flips the record's boolean flag by id via the OnToggle hook.
func (s *Store[R]) Toggle(id string) {
	now := time.Now()
	s.mutate(func(c *model.Collection[R]) {
		if s.hooks.OnToggle == nil {
			return
		}
		for i := range c.Records {
			if c.Records[i].RecordID() == id {
				c.Records[i] = s.hooks.OnToggle(c.Records[i], now)
				return
			}
		}
	})
}

// MarkSaved clears the dirty bit after a confirmed remote write of the state
// at savedVersion. If a mutation landed while the write was in flight the
// version no longer matches and the dirty bit stays set, so the follow-up
// save is guaranteed.
func (s *Store[R]) MarkSaved(savedVersion uint64) {
	s.mu.Lock()
	if s.state.Version == savedVersion {
		s.state.NeedsSave = false
	}
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current state. Data is cloned so the caller
// can serialize it while mutations continue.
func (s *Store[R]) Snapshot() State[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[R]{
		Data:      s.state.Data.Clone(),
		Loading:   s.state.Loading,
		NeedsSave: s.state.NeedsSave,
		Version:   s.state.Version,
	}
}

// Display returns records sorted descending by creation time. Storage order
// is left untouched; sorting happens only at read time.
func (s *Store[R]) Display() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Data == nil {
		return nil
	}
	out := append([]R(nil), s.state.Data.Records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created().After(out[j].Created())
	})
	return out
}

// mutate applies fn under the lock and sets the dirty bit; it is a silent
// no-op when Data is absent.
func (s *Store[R]) mutate(fn func(c *model.Collection[R])) {
	s.mu.Lock()
	if s.state.Data == nil {
		s.mu.Unlock()
		return
	}
	fn(s.state.Data)
	s.state.NeedsSave = true
	s.state.Version++
	s.mu.Unlock()
	s.notify()
}
