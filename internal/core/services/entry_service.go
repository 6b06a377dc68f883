package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/progress"
)

type EntryService struct {
	repo domain.HabitEntryRepository
}

func NewEntryService(repo domain.HabitEntryRepository) *EntryService {
	return &EntryService{
		repo: repo,
	}
}

func (s *EntryService) Create(ctx context.Context, entry *domain.HabitEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, entry)
}

func (s *EntryService) Update(ctx context.Context, entry *domain.HabitEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, entry)
}

func (s *EntryService) ListByHabitID(ctx context.Context, habitID int64) ([]*domain.HabitEntry, error) {
	return s.repo.ListByHabitID(ctx, habitID)
}

func (s *EntryService) ListByDate(ctx context.Context, date string) ([]*domain.HabitEntry, error) {
	if _, err := progress.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListByDate(ctx, date)
}
