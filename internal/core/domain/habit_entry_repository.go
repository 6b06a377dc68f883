package domain

import (
	"context"
	"errors"
)

var (
	ErrEntryNotFound = errors.New("habit entry not found")
)

type HabitEntryRepository interface {
	// Create inserts the entry and sets its generated ID.
	// It does not check for an existing entry on the same (habit, date).
	Create(ctx context.Context, entry *HabitEntry) error

	List(ctx context.Context) ([]*HabitEntry, error)

	// ListByHabitID reads through the by-habit index.
	ListByHabitID(ctx context.Context, habitID int64) ([]*HabitEntry, error)

	// ListByDate reads through the by-date index.
	ListByDate(ctx context.Context, date string) ([]*HabitEntry, error)

	// Update replaces the stored entry with the same ID.
	Update(ctx context.Context, entry *HabitEntry) error

	Delete(ctx context.Context, id int64) error

	// DeleteByHabitID sweeps every entry owned by a habit and reports how
	// many were removed.
	DeleteByHabitID(ctx context.Context, habitID int64) (int64, error)
}
