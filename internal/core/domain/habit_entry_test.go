package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHabitEntry(t *testing.T) {
	entry := NewHabitEntry(42, "2026-01-28", true)

	t.Run("Should set core fields", func(t *testing.T) {
		assert.Equal(t, int64(42), entry.HabitID)
		assert.Equal(t, "2026-01-28", entry.Date)
		assert.True(t, entry.Completed)
		assert.Zero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("Key pairs habit and date", func(t *testing.T) {
		assert.Equal(t, EntryKey{HabitID: 42, Date: "2026-01-28"}, entry.Key())
	})
}

func TestHabitEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   HabitEntry
		wantErr error
	}{
		{"Valid", HabitEntry{HabitID: 1, Date: "2026-03-01"}, nil},
		{"Missing habit", HabitEntry{Date: "2026-03-01"}, ErrInvalidEntry},
		{"Malformed date", HabitEntry{HabitID: 1, Date: "03/01/2026"}, ErrInvalidDate},
		{"Impossible date", HabitEntry{HabitID: 1, Date: "2026-02-30"}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
