package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

func ptr[T any](v T) *T {
	return &v
}

var testToday = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type trackerFixture struct {
	tracker *services.Tracker
	habits  *repository.InMemoryHabitRepository
	entries *repository.InMemoryEntryRepository
}

func newTracker(t *testing.T) trackerFixture {
	t.Helper()

	habits := repository.NewInMemoryHabitRepository()
	entries := repository.NewInMemoryEntryRepository()
	tracker := services.NewTracker(
		services.NewHabitService(habits, entries),
		services.NewEntryService(entries),
	).WithClock(func() time.Time { return testToday })
	require.NoError(t, tracker.Load(context.Background()))

	return trackerFixture{tracker: tracker, habits: habits, entries: entries}
}

func (f trackerFixture) add(t *testing.T, name string) *domain.Habit {
	t.Helper()
	h, err := f.tracker.AddHabit(context.Background(), services.CreateHabitInput{Name: name})
	require.NoError(t, err)
	return h
}

func TestTracker_AddHabit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: persisted with defaults and visible in memory", func(t *testing.T) {
		f := newTracker(t)

		h, err := f.tracker.AddHabit(ctx, services.CreateHabitInput{Name: "  Drink water  ", Description: "2L"})
		require.NoError(t, err)

		assert.Positive(t, h.ID)
		assert.Equal(t, "Drink water", h.Name)
		assert.Equal(t, domain.Palette[0], h.Color)
		assert.Equal(t, domain.EveryDay, h.TargetDays)
		assert.True(t, h.IsActive)

		stored, err := f.habits.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Drink water", stored.Name)

		require.Len(t, f.tracker.Habits(), 1)
		assert.Equal(t, h.ID, f.tracker.Habits()[0].ID)
	})

	t.Run("Validation: empty or whitespace name mutates nothing", func(t *testing.T) {
		f := newTracker(t)

		for _, name := range []string{"", "   ", "\t\n"} {
			_, err := f.tracker.AddHabit(ctx, services.CreateHabitInput{Name: name})
			assert.ErrorIs(t, err, domain.ErrHabitNameEmpty)
		}

		stored, err := f.habits.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, stored)
		assert.Empty(t, f.tracker.Habits())
	})

	t.Run("Validation: bad color and weekdays", func(t *testing.T) {
		f := newTracker(t)

		_, err := f.tracker.AddHabit(ctx, services.CreateHabitInput{Name: "Run", Color: "red"})
		assert.ErrorIs(t, err, domain.ErrInvalidColor)

		_, err = f.tracker.AddHabit(ctx, services.CreateHabitInput{Name: "Run", TargetDays: []int{7}})
		assert.ErrorIs(t, err, domain.ErrInvalidWeekdays)
	})

	t.Run("Store failure leaves memory untouched", func(t *testing.T) {
		habitRepo := new(MockHabitRepo)
		entryRepo := new(MockHabitEntryRepo)
		habitRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrStorageFull)

		tracker := services.NewTracker(services.NewHabitService(habitRepo, entryRepo), services.NewEntryService(entryRepo))

		_, err := tracker.AddHabit(ctx, services.CreateHabitInput{Name: "Read"})
		assert.ErrorIs(t, err, domain.ErrStorageFull)
		assert.Empty(t, tracker.Habits())
	})
}

func TestTracker_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle on then off keeps a single entry", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Stretch")

		first, err := f.tracker.Toggle(ctx, h.ID, "2026-03-10", true, nil)
		require.NoError(t, err)
		assert.True(t, first.Completed)

		second, err := f.tracker.Toggle(ctx, h.ID, "2026-03-10", false, nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		entries := f.tracker.EntriesFor(h.ID)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Completed)

		stored, err := f.entries.ListByHabitID(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.False(t, stored[0].Completed)
	})

	t.Run("Notes are kept unless replaced", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Journal")

		_, err := f.tracker.Toggle(ctx, h.ID, "2026-03-10", true, ptr("two pages"))
		require.NoError(t, err)

		e, err := f.tracker.Toggle(ctx, h.ID, "2026-03-10", false, nil)
		require.NoError(t, err)
		assert.Equal(t, "two pages", e.Notes)

		e, err = f.tracker.Toggle(ctx, h.ID, "2026-03-10", true, ptr(""))
		require.NoError(t, err)
		assert.Empty(t, e.Notes)
	})

	t.Run("Rejects unknown habit and malformed date", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Walk")

		_, err := f.tracker.Toggle(ctx, 999, "2026-03-10", true, nil)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		_, err = f.tracker.Toggle(ctx, h.ID, "10/03/2026", true, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDate)

		assert.Empty(t, f.tracker.Entries())
	})

	t.Run("Rejects days after today", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Stretch")

		for _, d := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
			_, err := f.tracker.Toggle(ctx, h.ID, d, true, nil)
			require.NoError(t, err)
		}
		require.Equal(t, 3, f.tracker.Cards(testToday, false)[0].Streak)

		for _, d := range []string{"2026-03-11", "2099-01-01"} {
			_, err := f.tracker.Toggle(ctx, h.ID, d, true, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidDate, d)
		}

		assert.Len(t, f.tracker.Entries(), 3)
		assert.Equal(t, 3, f.tracker.Cards(testToday, false)[0].Streak)

		stored, err := f.entries.ListByHabitID(ctx, h.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
	})

	t.Run("Concurrent toggles of one pair never duplicate", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Water")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = f.tracker.Toggle(ctx, h.ID, "2026-03-10", i%2 == 0, nil)
			}(i)
		}
		wg.Wait()

		stored, err := f.entries.ListByHabitID(ctx, h.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("Store failure keeps the previous entry", func(t *testing.T) {
		habitRepo := new(MockHabitRepo)
		entryRepo := new(MockHabitEntryRepo)

		habit := &domain.Habit{ID: 1, Name: "Read", IsActive: true, TargetDays: domain.EveryDay}
		existing := &domain.HabitEntry{ID: 7, HabitID: 1, Date: "2026-03-10", Completed: true}

		habitRepo.On("List", mock.Anything).Return([]*domain.Habit{habit}, nil)
		entryRepo.On("ListByHabitID", mock.Anything, int64(1)).Return([]*domain.HabitEntry{existing}, nil)
		entryRepo.On("Update", mock.Anything, mock.Anything).Return(domain.ErrStorage)

		tracker := services.NewTracker(services.NewHabitService(habitRepo, entryRepo), services.NewEntryService(entryRepo))
		require.NoError(t, tracker.Load(ctx))

		_, err := tracker.Toggle(ctx, 1, "2026-03-10", false, nil)
		assert.ErrorIs(t, err, domain.ErrStorage)

		entries := tracker.EntriesFor(1)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Completed)
	})
}

func TestTracker_DeleteHabit(t *testing.T) {
	ctx := context.Background()

	t.Run("Cascades to entries in store and memory", func(t *testing.T) {
		f := newTracker(t)
		keep := f.add(t, "Keep")
		drop := f.add(t, "Drop")

		for _, d := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
			_, err := f.tracker.Toggle(ctx, drop.ID, d, true, nil)
			require.NoError(t, err)
		}
		_, err := f.tracker.Toggle(ctx, keep.ID, "2026-03-10", true, nil)
		require.NoError(t, err)

		require.NoError(t, f.tracker.DeleteHabit(ctx, drop.ID))

		assert.Empty(t, f.tracker.EntriesFor(drop.ID))
		assert.Len(t, f.tracker.Entries(), 1)
		require.Len(t, f.tracker.Habits(), 1)
		assert.Equal(t, keep.ID, f.tracker.Habits()[0].ID)

		stored, err := f.entries.ListByHabitID(ctx, drop.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)

		_, err = f.tracker.Habit(drop.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Unknown habit", func(t *testing.T) {
		f := newTracker(t)
		assert.ErrorIs(t, f.tracker.DeleteHabit(ctx, 42), domain.ErrHabitNotFound)
	})

	t.Run("Failed sweep is reported and memory kept", func(t *testing.T) {
		habitRepo := new(MockHabitRepo)
		entryRepo := new(MockHabitEntryRepo)

		habit := &domain.Habit{ID: 3, Name: "Yoga", IsActive: true}
		habitRepo.On("List", mock.Anything).Return([]*domain.Habit{habit}, nil)
		habitRepo.On("Delete", mock.Anything, int64(3)).Return(nil)
		entryRepo.On("ListByHabitID", mock.Anything, int64(3)).Return([]*domain.HabitEntry{}, nil)
		entryRepo.On("DeleteByHabitID", mock.Anything, int64(3)).Return(int64(0), domain.ErrStorage)

		tracker := services.NewTracker(services.NewHabitService(habitRepo, entryRepo), services.NewEntryService(entryRepo))
		require.NoError(t, tracker.Load(ctx))

		err := tracker.DeleteHabit(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.Len(t, tracker.Habits(), 1)

		habitRepo.AssertCalled(t, "Delete", mock.Anything, int64(3))
	})
}

func TestTracker_SetActive(t *testing.T) {
	ctx := context.Background()
	f := newTracker(t)
	h := f.add(t, "Guitar")
	f.add(t, "Piano")

	archived, err := f.tracker.SetActive(ctx, h.ID, false)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)

	require.Len(t, f.tracker.ActiveHabits(), 1)
	assert.Equal(t, "Piano", f.tracker.ActiveHabits()[0].Name)

	active, err := f.habits.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.tracker.SetActive(ctx, h.ID, true)
	require.NoError(t, err)
	assert.Len(t, f.tracker.ActiveHabits(), 2)
}

func TestTracker_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Restores state from the store", func(t *testing.T) {
		f := newTracker(t)
		h := f.add(t, "Floss")
		_, err := f.tracker.Toggle(ctx, h.ID, "2026-03-10", true, nil)
		require.NoError(t, err)

		fresh := services.NewTracker(
			services.NewHabitService(f.habits, f.entries),
			services.NewEntryService(f.entries),
		)
		require.NoError(t, fresh.Load(ctx))

		assert.Len(t, fresh.Habits(), 1)
		require.Len(t, fresh.Entries(), 1)
		assert.True(t, fresh.Entries()[0].Completed)
	})

	t.Run("Failure surfaces the generic load error", func(t *testing.T) {
		habitRepo := new(MockHabitRepo)
		entryRepo := new(MockHabitEntryRepo)
		cause := errors.New("disk I/O error")
		habitRepo.On("List", mock.Anything).Return(nil, cause)

		tracker := services.NewTracker(services.NewHabitService(habitRepo, entryRepo), services.NewEntryService(entryRepo))

		err := tracker.Load(ctx)
		assert.ErrorIs(t, err, services.ErrLoadFailed)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load app data", services.ErrLoadFailed.Error())
	})

	t.Run("Entry read failure aborts the load", func(t *testing.T) {
		habitRepo := new(MockHabitRepo)
		entryRepo := new(MockHabitEntryRepo)
		habitRepo.On("List", mock.Anything).Return([]*domain.Habit{{ID: 1, Name: "A"}}, nil)
		entryRepo.On("ListByHabitID", mock.Anything, int64(1)).Return(nil, domain.ErrStorage)

		tracker := services.NewTracker(services.NewHabitService(habitRepo, entryRepo), services.NewEntryService(entryRepo))

		assert.ErrorIs(t, tracker.Load(ctx), services.ErrLoadFailed)
		assert.Empty(t, tracker.Habits())
	})

	t.Run("Reads the store behind a cache", func(t *testing.T) {
		f := newTracker(t)
		f.add(t, "Written by another process")

		cached := &staleListRepo{HabitRepository: f.habits}
		tracker := services.NewTracker(
			services.NewHabitService(cached, f.entries),
			services.NewEntryService(f.entries),
		)
		require.NoError(t, tracker.Load(ctx))

		require.Len(t, tracker.Habits(), 1)
		assert.Equal(t, "Written by another process", tracker.Habits()[0].Name)
		assert.Zero(t, cached.listCalls)
	})
}

// staleListRepo answers List from an out-of-date snapshot, like a cache
// that missed writes from another process.
type staleListRepo struct {
	domain.HabitRepository
	listCalls int
}

func (r *staleListRepo) List(ctx context.Context) ([]*domain.Habit, error) {
	r.listCalls++
	return nil, nil
}

func (r *staleListRepo) ListFresh(ctx context.Context) ([]*domain.Habit, error) {
	return r.HabitRepository.List(ctx)
}

func TestEntryService_RejectsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockHabitEntryRepo)
	svc := services.NewEntryService(entryRepo)

	err := svc.Create(ctx, &domain.HabitEntry{Date: "2026-03-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)

	err = svc.Update(ctx, &domain.HabitEntry{HabitID: 1, Date: "tomorrow"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	entryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	entryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTracker_CardsAndToday(t *testing.T) {
	ctx := context.Background()
	f := newTracker(t)

	run := f.add(t, "Run")
	read := f.add(t, "Read")
	old := f.add(t, "Old")
	_, err := f.tracker.SetActive(ctx, old.ID, false)
	require.NoError(t, err)

	for _, d := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
		_, err := f.tracker.Toggle(ctx, run.ID, d, true, nil)
		require.NoError(t, err)
	}
	_, err = f.tracker.Toggle(ctx, read.ID, "2026-03-09", true, nil)
	require.NoError(t, err)
	_, err = f.tracker.Toggle(ctx, read.ID, "2026-03-10", false, nil)
	require.NoError(t, err)
	_, err = f.tracker.Toggle(ctx, old.ID, "2026-03-10", true, nil)
	require.NoError(t, err)

	t.Run("Cards", func(t *testing.T) {
		cards := f.tracker.Cards(testToday, true)
		require.Len(t, cards, 2)

		runCard := cards[0]
		assert.Equal(t, run.ID, runCard.Habit.ID)
		assert.Equal(t, 3, runCard.Streak)
		assert.Equal(t, 3, runCard.LongestStreak)
		assert.Equal(t, 100, runCard.CompletionRate)
		assert.True(t, runCard.CompletedToday)
		require.Len(t, runCard.Week, 7)
		assert.Equal(t, "2026-03-04", runCard.Week[0].Date)
		assert.Equal(t, "2026-03-10", runCard.Week[6].Date)
		assert.True(t, runCard.Week[6].Completed)
		assert.False(t, runCard.Week[0].Completed)

		readCard := cards[1]
		assert.Equal(t, 0, readCard.Streak)
		assert.Equal(t, 50, readCard.CompletionRate)
		assert.False(t, readCard.CompletedToday)

		assert.Len(t, f.tracker.Cards(testToday, false), 3)
	})

	t.Run("Today counts active habits only", func(t *testing.T) {
		summary := f.tracker.Today(testToday)
		assert.Equal(t, "2026-03-10", summary.Date)
		assert.Equal(t, 1, summary.Completed)
		assert.Equal(t, 2, summary.ActiveHabits)
	})

	t.Run("EntriesOn uses the store date index", func(t *testing.T) {
		list, err := f.tracker.EntriesOn(ctx, "2026-03-10")
		require.NoError(t, err)
		assert.Len(t, list, 3)

		_, err = f.tracker.EntriesOn(ctx, "yesterday")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}
