package store

import (
	"time"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// ForReminders instantiates the store for the reminders collection.
// Toggling flips completion; updates land as passed by the caller.
func ForReminders() *Store[model.Reminder] {
	return New(Hooks[model.Reminder]{
		OnToggle: func(r model.Reminder, _ time.Time) model.Reminder {
			r.IsCompleted = !r.IsCompleted
			return r
		},
	})
}

// ForSavedItems instantiates the store for the saved-items collection.
// Both update and toggle restamp lastModified with the client clock,
// overriding whatever the caller supplied.
func ForSavedItems() *Store[model.SavedItem] {
	return New(Hooks[model.SavedItem]{
		OnUpdate: func(it model.SavedItem, now time.Time) model.SavedItem {
			it = it.Normalized()
			it.LastModified = now
			return it
		},
		OnToggle: func(it model.SavedItem, now time.Time) model.SavedItem {
			it.IsFavorite = !it.IsFavorite
			it.LastModified = now
			return it
		},
	})
}
