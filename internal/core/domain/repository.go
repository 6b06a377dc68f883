package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")

	// ErrStorage wraps any failure reported by the underlying database.
	ErrStorage = errors.New("storage error")

	// ErrStorageFull is the local equivalent of a browser quota error.
	ErrStorageFull = errors.New("storage quota exceeded")

	// ErrSchemaMismatch is returned when the database was written by a newer
	// schema version than this binary knows.
	ErrSchemaMismatch = errors.New("database schema version mismatch")
)

type HabitRepository interface {
	// Create inserts the habit and sets its generated ID.
	Create(ctx context.Context, habit *Habit) error

	GetByID(ctx context.Context, id int64) (*Habit, error)

	// List returns every habit in insertion order.
	List(ctx context.Context) ([]*Habit, error)

	// ListActive reads through the by-active index.
	ListActive(ctx context.Context) ([]*Habit, error)

	// Update replaces the stored habit with the same ID.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit. Its entries are not touched.
	Delete(ctx context.Context, id int64) error
}
