package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong = errors.New("habit description is too long (max 500 chars)")
	ErrInvalidColor     = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidWeekdays  = errors.New("invalid weekdays (must be 0-6)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	MaxNameLen = 100
	MaxDescLen = 500
)

// Palette lists the swatches offered by the add-habit form. The first one is
// used when no color is given.
var Palette = []string{
	"#3b82f6",
	"#ef4444",
	"#10b981",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
	"#06b6d4",
	"#84cc16",
}

// EveryDay is the default target schedule, Sunday (0) through Saturday (6).
var EveryDay = []int{0, 1, 2, 3, 4, 5, 6}

type Habit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	TargetDays  []int     `json:"target_days"`
	IsActive    bool      `json:"is_active"`
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return append([]int(nil), EveryDay...)
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func validate(name, desc, color string, weekdays []int) error {
	if name == "" {
		return ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return ErrHabitNameTooLong
	}
	if utf8.RuneCountInString(desc) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	for _, day := range weekdays {
		if day < 0 || day > 6 {
			return ErrInvalidWeekdays
		}
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	return nil
}

// NewHabit validates the user input and returns an active habit without an
// ID. The store assigns the ID on insert.
func NewHabit(name, description, color string, targetDays []int) (*Habit, error) {
	cleanName := strings.TrimSpace(name)
	cleanDesc := strings.TrimSpace(description)

	if err := validate(cleanName, cleanDesc, color, targetDays); err != nil {
		return nil, err
	}

	if color == "" {
		color = Palette[0]
	}

	return &Habit{
		Name:        cleanName,
		Description: cleanDesc,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
		TargetDays:  normalizeWeekdays(targetDays),
		IsActive:    true,
	}, nil
}

// Targets reports whether the habit is scheduled on the given weekday.
func (h *Habit) Targets(day time.Weekday) bool {
	for _, d := range h.TargetDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

func (h *Habit) Archive() {
	h.IsActive = false
}

func (h *Habit) Restore() {
	h.IsActive = true
}
