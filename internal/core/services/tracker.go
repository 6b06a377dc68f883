package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/progress"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

// ErrLoadFailed is what callers show when the startup load fails. The cause
// stays wrapped for logs.
var ErrLoadFailed = errors.New("failed to load app data")

// Tracker owns the in-memory view of habits and entries and mirrors every
// mutation to the store first. Memory is only touched after the store write
// succeeds, so a failed write leaves the previous state visible.
type Tracker struct {
	habits  *HabitService
	entries *EntryService
	now     func() time.Time

	mu        sync.RWMutex
	habitList []*domain.Habit
	entryMap  map[domain.EntryKey]*domain.HabitEntry
}

func NewTracker(habits *HabitService, entries *EntryService) *Tracker {
	return &Tracker{
		habits:   habits,
		entries:  entries,
		now:      time.Now,
		entryMap: make(map[domain.EntryKey]*domain.HabitEntry),
	}
}

// WithClock sets the clock that decides which day is today. Toggle refuses
// days after it.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Load replaces the in-memory state with the store contents. Entries are read
// habit by habit, one request at a time. The habit list bypasses any cache.
func (t *Tracker) Load(ctx context.Context) error {
	habits, err := t.habits.ListFresh(ctx)
	if err != nil {
		logger.Error("Failed to load habits", "err", err)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	entryMap := make(map[domain.EntryKey]*domain.HabitEntry)
	for _, h := range habits {
		list, err := t.entries.ListByHabitID(ctx, h.ID)
		if err != nil {
			logger.Error("Failed to load entries", "habit_id", h.ID, "err", err)
			return fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		for _, e := range list {
			// Keep the newest row if legacy data holds duplicates for a day.
			if prev, ok := entryMap[e.Key()]; ok && prev.ID > e.ID {
				continue
			}
			entryMap[e.Key()] = e
		}
	}

	t.mu.Lock()
	t.habitList = habits
	t.entryMap = entryMap
	t.mu.Unlock()

	logger.Debug("Tracker loaded", "habits", len(habits), "entries", len(entryMap))
	return nil
}

func (t *Tracker) AddHabit(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.habits.Create(ctx, input)
	observe("add_habit", err)
	if err != nil {
		logger.Warn("Failed to add habit", "name", input.Name, "err", err)
		return nil, err
	}

	t.habitList = append(t.habitList, habit)
	return cloneHabit(habit), nil
}

// Toggle records the completion state of a habit on a day. An existing entry
// for the pair is updated in place; otherwise a new one is inserted. notes is
// left untouched when nil. Days after today are rejected.
func (t *Tracker) Toggle(ctx context.Context, habitID int64, date string, completed bool, notes *string) (*domain.HabitEntry, error) {
	if _, err := progress.ParseDate(date); err != nil {
		return nil, err
	}
	if date > progress.FormatDate(t.now()) {
		return nil, fmt.Errorf("%w: %s is in the future", domain.ErrInvalidDate, date)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.findHabit(habitID) < 0 {
		return nil, domain.ErrHabitNotFound
	}

	key := domain.EntryKey{HabitID: habitID, Date: date}

	var entry *domain.HabitEntry
	var err error
	if existing, ok := t.entryMap[key]; ok {
		clone := *existing
		clone.Completed = completed
		if notes != nil {
			clone.Notes = *notes
		}
		entry = &clone
		err = t.entries.Update(ctx, entry)
	} else {
		entry = domain.NewHabitEntry(habitID, date, completed)
		if notes != nil {
			entry.Notes = *notes
		}
		err = t.entries.Create(ctx, entry)
	}

	observe("toggle", err)
	if err != nil {
		logger.Warn("Failed to toggle habit", "habit_id", habitID, "date", date, "err", err)
		return nil, err
	}

	t.entryMap[key] = entry
	clone := *entry
	return &clone, nil
}

func (t *Tracker) DeleteHabit(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.habits.Delete(ctx, id)
	observe("delete_habit", err)
	if err != nil {
		logger.Warn("Failed to delete habit", "habit_id", id, "err", err)
		return err
	}

	if i := t.findHabit(id); i >= 0 {
		t.habitList = append(t.habitList[:i], t.habitList[i+1:]...)
	}
	for key := range t.entryMap {
		if key.HabitID == id {
			delete(t.entryMap, key)
		}
	}
	return nil
}

// SetActive archives or restores a habit. Archived habits keep their history.
func (t *Tracker) SetActive(ctx context.Context, id int64, active bool) (*domain.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.habits.SetActive(ctx, id, active)
	observe("set_active", err)
	if err != nil {
		logger.Warn("Failed to update habit", "habit_id", id, "err", err)
		return nil, err
	}

	if i := t.findHabit(id); i >= 0 {
		t.habitList[i] = habit
	}
	return cloneHabit(habit), nil
}

func (t *Tracker) findHabit(id int64) int {
	for i, h := range t.habitList {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	clone := *h
	clone.TargetDays = append([]int(nil), h.TargetDays...)
	return &clone
}

// Habit returns a copy of one loaded habit.
func (t *Tracker) Habit(id int64) (*domain.Habit, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.findHabit(id)
	if i < 0 {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(t.habitList[i]), nil
}

// Habits returns copies of every habit in creation order.
func (t *Tracker) Habits() []*domain.Habit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Habit, 0, len(t.habitList))
	for _, h := range t.habitList {
		out = append(out, cloneHabit(h))
	}
	return out
}

func (t *Tracker) ActiveHabits() []*domain.Habit {
	var out []*domain.Habit
	for _, h := range t.Habits() {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out
}

// Entries returns copies of every entry, ordered by habit then date.
func (t *Tracker) Entries() []*domain.HabitEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.collect(func(*domain.HabitEntry) bool { return true })
}

func (t *Tracker) EntriesFor(habitID int64) []*domain.HabitEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.collect(func(e *domain.HabitEntry) bool { return e.HabitID == habitID })
}

func (t *Tracker) collect(keep func(*domain.HabitEntry) bool) []*domain.HabitEntry {
	out := make([]*domain.HabitEntry, 0)
	for _, e := range t.entryMap {
		if keep(e) {
			clone := *e
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].HabitID != out[j].HabitID {
			return out[i].HabitID < out[j].HabitID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// EntriesOn reads one day's entries through the store's date index rather
// than memory, so it also sees rows written by another process.
func (t *Tracker) EntriesOn(ctx context.Context, date string) ([]*domain.HabitEntry, error) {
	return t.entries.ListByDate(ctx, date)
}

func (t *Tracker) completedOn(habitID int64, date string) bool {
	e, ok := t.entryMap[domain.EntryKey{HabitID: habitID, Date: date}]
	return ok && e.Completed
}

// Cards builds the per-habit view: streaks, completion rate and the last
// seven days. activeOnly hides archived habits.
func (t *Tracker) Cards(today time.Time, activeOnly bool) []domain.HabitCard {
	habits := t.Habits()
	week := progress.DateRange(7, today)
	todayKey := progress.FormatDate(today)

	t.mu.RLock()
	defer t.mu.RUnlock()

	cards := make([]domain.HabitCard, 0, len(habits))
	for _, h := range habits {
		if activeOnly && !h.IsActive {
			continue
		}

		entries := t.collect(func(e *domain.HabitEntry) bool { return e.HabitID == h.ID })

		card := domain.HabitCard{
			Habit:          h,
			Streak:         progress.CalculateStreak(entries, today),
			LongestStreak:  progress.LongestStreak(entries),
			CompletionRate: progress.CompletionRate(entries),
			CompletedToday: t.completedOn(h.ID, todayKey),
			Week:           make([]domain.DayStatus, 0, len(week)),
		}

		for _, day := range week {
			d, _ := progress.ParseDate(day)
			card.Week = append(card.Week, domain.DayStatus{
				Date:      day,
				Completed: t.completedOn(h.ID, day),
				Targeted:  h.Targets(d.Weekday()),
			})
		}

		cards = append(cards, card)
	}
	return cards
}

// Today counts how many active habits are done on today's date.
func (t *Tracker) Today(today time.Time) domain.TodaySummary {
	active := t.ActiveHabits()
	key := progress.FormatDate(today)

	t.mu.RLock()
	defer t.mu.RUnlock()

	summary := domain.TodaySummary{Date: key, ActiveHabits: len(active)}
	for _, h := range active {
		if t.completedOn(h.ID, key) {
			summary.Completed++
		}
	}
	return summary
}
