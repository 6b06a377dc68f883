package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidEntry = errors.New("invalid habit entry data")
	ErrInvalidDate  = errors.New("invalid date (must be YYYY-MM-DD)")
)

// DateLayout is the canonical day key used for Entry.Date.
const DateLayout = "2006-01-02"

type HabitEntry struct {
	ID        int64     `json:"id" db:"id"`
	HabitID   int64     `json:"habit_id" db:"habit_id"`
	Date      string    `json:"date" db:"date"`
	Completed bool      `json:"completed" db:"completed"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EntryKey identifies the single entry a habit may have on a given day.
type EntryKey struct {
	HabitID int64
	Date    string
}

func NewHabitEntry(habitID int64, date string, completed bool) *HabitEntry {
	return &HabitEntry{
		HabitID:   habitID,
		Date:      date,
		Completed: completed,
		CreatedAt: time.Now().UTC(),
	}
}

func (e *HabitEntry) Key() EntryKey {
	return EntryKey{HabitID: e.HabitID, Date: e.Date}
}

func (e *HabitEntry) Validate() error {
	if e.HabitID <= 0 {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
