package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

// HabitService is the store-facing half of habit management. It holds no
// state of its own; the Tracker keeps the in-memory view.
type HabitService struct {
	repo    domain.HabitRepository
	entries domain.HabitEntryRepository
}

func NewHabitService(repo domain.HabitRepository, entries domain.HabitEntryRepository) *HabitService {
	return &HabitService{
		repo:    repo,
		entries: entries,
	}
}

type CreateHabitInput struct {
	Name        string
	Description string
	Color       string
	TargetDays  []int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.Name, input.Description, input.Color, input.TargetDays)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// freshLister is implemented by caching decorators that can read straight
// from the store underneath.
type freshLister interface {
	ListFresh(ctx context.Context) ([]*domain.Habit, error)
}

// ListFresh reads every habit from the store, skipping any cache in front of
// it.
func (s *HabitService) ListFresh(ctx context.Context) ([]*domain.Habit, error) {
	if f, ok := s.repo.(freshLister); ok {
		return f.ListFresh(ctx)
	}
	return s.repo.List(ctx)
}

func (s *HabitService) SetActive(ctx context.Context, id int64, active bool) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		habit.Restore()
	} else {
		habit.Archive()
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete removes the habit and then sweeps its entries. The two writes are
// not atomic: a failed sweep leaves orphan entries that no listing by habit
// can reach.
func (s *HabitService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	_, err := s.entries.DeleteByHabitID(ctx, id)
	return err
}
