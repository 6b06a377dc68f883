package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.HabitEntryRepository = (*InMemoryEntryRepository)(nil)
)

// InMemoryHabitRepository keeps habits in a map. IDs come from a counter that
// only moves forward, so a deleted ID is never handed out again.
type InMemoryHabitRepository struct {
	store  map[int64]*domain.Habit
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[int64]*domain.Habit),
	}
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	c := *h
	c.TargetDays = append([]int(nil), h.TargetDays...)
	return &c
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	habit.ID = r.nextID
	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (r *InMemoryHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	return r.filter(func(*domain.Habit) bool { return true }), nil
}

func (r *InMemoryHabitRepository) ListActive(ctx context.Context) ([]*domain.Habit, error) {
	return r.filter(func(h *domain.Habit) bool { return h.IsActive }), nil
}

func (r *InMemoryHabitRepository) filter(keep func(*domain.Habit) bool) []*domain.Habit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if keep(h) {
			habits = append(habits, cloneHabit(h))
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].ID < habits[j].ID
	})
	return habits
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryEntryRepository struct {
	store  map[int64]*domain.HabitEntry
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[int64]*domain.HabitEntry),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) List(ctx context.Context) ([]*domain.HabitEntry, error) {
	return r.filter(func(*domain.HabitEntry) bool { return true }), nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID int64) ([]*domain.HabitEntry, error) {
	return r.filter(func(e *domain.HabitEntry) bool { return e.HabitID == habitID }), nil
}

func (r *InMemoryEntryRepository) ListByDate(ctx context.Context, date string) ([]*domain.HabitEntry, error) {
	return r.filter(func(e *domain.HabitEntry) bool { return e.Date == date }), nil
}

func (r *InMemoryEntryRepository) filter(keep func(*domain.HabitEntry) bool) []*domain.HabitEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.HabitEntry{}
	for _, e := range r.store {
		if keep(e) {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}

func (r *InMemoryEntryRepository) Update(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrEntryNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryEntryRepository) DeleteByHabitID(ctx context.Context, habitID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.store {
		if e.HabitID == habitID {
			delete(r.store, id)
			n++
		}
	}
	return n, nil
}
