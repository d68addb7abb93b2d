// Package autosave keeps the remote document eventually consistent with the
// in-memory collection: it watches the store's dirty bit, debounces bursts of
// edits into a single wholesale write and gates every write on a live session.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
	"github.com/Fernando9200/sistema-lembretes/internal/store"
)

// DefaultQuietPeriod is the debounce delay between the last mutation and the
// save attempt.
const DefaultQuietPeriod = 2 * time.Second

// SessionGate is the pre-write credential check.
type SessionGate interface {
	IsSessionActive(ctx context.Context) bool
	RequestReauth()
}

// SaveFunc writes one collection snapshot wholesale to the document store.
type SaveFunc[R model.Record] func(ctx context.Context, data *model.Collection[R]) error

// Scheduler drives the debounced persistence of one collection. Arm/fire/save
// all run on the single Run goroutine, so at most one save is in flight per
// collection.
type Scheduler[R model.Record] struct {
	store *store.Store[R]
	gate  SessionGate
	save  SaveFunc[R]
	delay time.Duration
	log   *zap.Logger

	mu     sync.Mutex
	saving bool
}

// New constructs a scheduler. A non-positive delay falls back to
// DefaultQuietPeriod.
func New[R model.Record](st *store.Store[R], gate SessionGate, save SaveFunc[R], delay time.Duration, log *zap.Logger) *Scheduler[R] {
	if delay <= 0 {
		delay = DefaultQuietPeriod
	}
	return &Scheduler[R]{store: st, gate: gate, save: save, delay: delay, log: log}
}

// Saving reports whether a save is in flight (for UI feedback).
func (s *Scheduler[R]) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Run watches the store until ctx is cancelled. Each relevant change replaces
// any previously armed, unfired save with a fresh one delay from now; a timer
// still pending at cancellation never fires.
func (s *Scheduler[R]) Run(ctx context.Context) {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	arm := func() {
		stop()
		timer = time.NewTimer(s.delay)
		timerC = timer.C
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.store.Changes():
			// While a save is in flight no new timer is armed; the
			// completion re-evaluates the dirty bit below.
			if s.store.Snapshot().NeedsSave && !s.Saving() {
				arm()
			}
		case <-timerC:
			timer, timerC = nil, nil
			// Re-arm only after a confirmed write that a concurrent
			// mutation left dirty; a failed write waits for the next
			// change instead of retrying on a timer.
			if s.Flush(ctx) && s.store.Snapshot().NeedsSave {
				arm()
			}
		}
	}
}

// Flush attempts one save immediately, bypassing the debounce. Used by the
// fired timer and by graceful shutdown. The dirty bit is cleared only after
// the write is confirmed and only if no mutation raced the write; a session
// failure raises the re-authentication flag and keeps the bit set. The
// return value reports whether the write was confirmed.
func (s *Scheduler[R]) Flush(ctx context.Context) bool {
	st := s.store.Snapshot()
	if !st.NeedsSave || st.Data == nil {
		return false
	}
	if !s.beginSave() {
		return false
	}
	defer s.endSave()

	if !s.gate.IsSessionActive(ctx) {
		s.log.Warn("save aborted: session is not active, requesting re-authentication")
		s.gate.RequestReauth()
		return false
	}

	if err := s.save(ctx, st.Data); err != nil {
		s.log.Error("saving collection failed", zap.Error(err))
		return false
	}
	s.store.MarkSaved(st.Version)
	s.log.Debug("collection saved", zap.Int("records", len(st.Data.Records)))
	return true
}

func (s *Scheduler[R]) beginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return false
	}
	s.saving = true
	return true
}

func (s *Scheduler[R]) endSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}
