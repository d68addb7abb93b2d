// Package app is the composition root: it owns the two record stores, their
// autosave schedulers and the session gate, and exposes the operations the
// user interface calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/autosave"
	"github.com/Fernando9200/sistema-lembretes/internal/document"
	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
	"github.com/Fernando9200/sistema-lembretes/internal/session"
	"github.com/Fernando9200/sistema-lembretes/internal/store"
	"github.com/Fernando9200/sistema-lembretes/internal/upload"
)

// App wires the stores, schedulers, gate, document store and uploader
// together. One instance serves one signed-in user at a time.
type App struct {
	gate     *session.Gate
	docs     document.Store
	uploader upload.Uploader
	log      *zap.Logger

	reminders *store.Store[model.Reminder]
	items     *store.Store[model.SavedItem]

	remindersSched *autosave.Scheduler[model.Reminder]
	itemsSched     *autosave.Scheduler[model.SavedItem]

	baseCtx context.Context
}

// New builds the application graph. Call Start before signing anyone in.
func New(gate *session.Gate, docs document.Store, uploader upload.Uploader, quietPeriod time.Duration, log *zap.Logger) *App {
	a := &App{
		gate:      gate,
		docs:      docs,
		uploader:  uploader,
		log:       log,
		reminders: store.ForReminders(),
		items:     store.ForSavedItems(),
		baseCtx:   context.Background(),
	}
	a.remindersSched = autosave.New(a.reminders, gate, a.saveReminders, quietPeriod, log.Named("autosave.reminders"))
	a.itemsSched = autosave.New(a.items, gate, a.saveItems, quietPeriod, log.Named("autosave.savedItems"))
	gate.OnChange(a.onSessionChange)
	return a
}

// Start launches both autosave schedulers. They stop when ctx is cancelled;
// a pending unfired save dies with them.
func (a *App) Start(ctx context.Context) {
	a.baseCtx = ctx
	go a.remindersSched.Run(ctx)
	go a.itemsSched.Run(ctx)
}

func (a *App) Gate() *session.Gate { return a.gate }

func (a *App) Reminders() *store.Store[model.Reminder] { return a.reminders }

func (a *App) Items() *store.Store[model.SavedItem] { return a.items }

// Saving reports whether any collection write is in flight.
func (a *App) Saving() bool {
	return a.remindersSched.Saving() || a.itemsSched.Saving()
}

// Loading reports whether either collection is still being fetched.
func (a *App) Loading() bool {
	return a.reminders.Snapshot().Loading || a.items.Snapshot().Loading
}

// ReauthRequired reports whether a background save found the session dead.
func (a *App) ReauthRequired() bool { return a.gate.ReauthRequested() }

// Flush forces both collections out immediately, for graceful shutdown.
func (a *App) Flush(ctx context.Context) {
	a.remindersSched.Flush(ctx)
	a.itemsSched.Flush(ctx)
}

// onSessionChange runs on sign-in (u set) and sign-out (u nil). Sign-out
// resets the stores to the absent state without cancelling in-flight saves.
func (a *App) onSessionChange(u *model.User) {
	if u == nil {
		a.reminders.Load(nil)
		a.items.Load(nil)
		return
	}
	a.reminders.StartLoading()
	a.items.StartLoading()

	ctx := a.baseCtx
	userID := u.ID.String()
	if err := loadCollection(ctx, a.docs, document.KindReminders, userID, a.reminders,
		document.DecodeReminders, document.EncodeReminders); err != nil {
		a.log.Error("loading reminders failed", zap.Error(err))
		a.reminders.Load(model.NewCollection[model.Reminder](userID))
	}
	if err := loadCollection(ctx, a.docs, document.KindSavedItems, userID, a.items,
		document.DecodeSavedItems, document.EncodeSavedItems); err != nil {
		a.log.Error("loading saved items failed", zap.Error(err))
		a.items.Load(model.NewCollection[model.SavedItem](userID))
	}
}

// loadCollection fetches one per-user document into its store. A user with no
// document yet gets a fresh empty collection that is persisted right away, so
// the remote side observes the account as initialized.
func loadCollection[R model.Record](
	ctx context.Context,
	docs document.Store,
	kind document.Kind,
	userID string,
	st *store.Store[R],
	decode func([]byte) (*model.Collection[R], error),
	encode func(*model.Collection[R]) ([]byte, error),
) error {
	raw, err := docs.Get(ctx, kind, userID)
	if errors.Is(err, errs.ErrNotFound) {
		c := model.NewCollection[R](userID)
		doc, err := encode(c)
		if err != nil {
			return fmt.Errorf("encoding empty %s: %w", kind, err)
		}
		if err := docs.Set(ctx, kind, userID, doc); err != nil {
			return fmt.Errorf("initializing %s: %w", kind, err)
		}
		st.Load(c)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching %s: %w", kind, err)
	}
	c, err := decode(raw)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	st.Load(c)
	return nil
}

func (a *App) saveReminders(ctx context.Context, c *model.Collection[model.Reminder]) error {
	doc, err := document.EncodeReminders(c)
	if err != nil {
		return err
	}
	return a.docs.Set(ctx, document.KindReminders, c.UserID, doc)
}

func (a *App) saveItems(ctx context.Context, c *model.Collection[model.SavedItem]) error {
	doc, err := document.EncodeSavedItems(c)
	if err != nil {
		return err
	}
	return a.docs.Set(ctx, document.KindSavedItems, c.UserID, doc)
}

// AddReminder validates the title at the boundary and inserts the reminder.
func (a *App) AddReminder(title, description string) (model.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Reminder{}, errs.ErrEmptyTitle
	}
	r := model.NewReminder(title, strings.TrimSpace(description))
	a.reminders.Add(r)
	return r, nil
}

// UpdateReminder replaces the stored reminder carrying the same ID.
func (a *App) UpdateReminder(r model.Reminder) error {
	if strings.TrimSpace(r.Title) == "" {
		return errs.ErrEmptyTitle
	}
	a.reminders.Update(r)
	return nil
}

func (a *App) ToggleReminder(id string) { a.reminders.Toggle(id) }
func (a *App) RemoveReminder(id string) { a.reminders.Remove(id) }

// AddTextItem saves a plain note.
func (a *App) AddTextItem(title, content string) (model.SavedItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.SavedItem{}, errs.ErrEmptyTitle
	}
	it := model.NewTextItem(title, content)
	a.items.Add(it)
	return it, nil
}

// AddLinkItem saves a bookmark.
func (a *App) AddLinkItem(title, content, url string) (model.SavedItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.SavedItem{}, errs.ErrEmptyTitle
	}
	it := model.NewLinkItem(title, content, url)
	a.items.Add(it)
	return it, nil
}

// AddFileItem uploads the attachment first and only then creates the record;
// a failed upload aborts the add and leaves the store untouched.
func (a *App) AddFileItem(ctx context.Context, title, content, fileName, contentType string, data []byte) (model.SavedItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.SavedItem{}, errs.ErrEmptyTitle
	}
	fd, err := a.uploader.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return model.SavedItem{}, fmt.Errorf("uploading attachment: %w", err)
	}
	it := model.NewFileItem(title, content, fd)
	a.items.Add(it)
	return it, nil
}

// UpdateItem replaces the stored item carrying the same ID. The store hook
// normalizes variant payloads and restamps lastModified.
func (a *App) UpdateItem(it model.SavedItem) error {
	if strings.TrimSpace(it.Title) == "" {
		return errs.ErrEmptyTitle
	}
	a.items.Update(it)
	return nil
}

func (a *App) ToggleFavorite(id string) { a.items.Toggle(id) }
func (a *App) RemoveItem(id string)     { a.items.Remove(id) }
