package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) List(ctx context.Context) ([]*domain.Habit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) ListActive(ctx context.Context) ([]*domain.Habit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *MockHabitRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockHabitEntryRepo struct {
	mock.Mock
}

func (m *MockHabitEntryRepo) Create(ctx context.Context, entry *domain.HabitEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHabitEntryRepo) List(ctx context.Context) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) ListByHabitID(ctx context.Context, habitID int64) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) ListByDate(ctx context.Context, date string) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) Update(ctx context.Context, entry *domain.HabitEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHabitEntryRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHabitEntryRepo) DeleteByHabitID(ctx context.Context, habitID int64) (int64, error) {
	args := m.Called(ctx, habitID)
	return args.Get(0).(int64), args.Error(1)
}
