package services

import (
	"time"
	"unicode/utf8"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/progress"
)

const (
	DefaultStatsDays = 30
	MaxStatsDays     = 366
	maxChartName     = 15
)

// Snapshot is the read side of the Tracker used by analytics.
type Snapshot interface {
	Habits() []*domain.Habit
	Entries() []*domain.HabitEntry
}

type StatsService struct {
	source Snapshot
}

func NewStatsService(source Snapshot) *StatsService {
	return &StatsService{
		source: source,
	}
}

// Analytics summarises the last days of history ending today. days is
// clamped to [1, MaxStatsDays]; zero selects DefaultStatsDays.
func (s *StatsService) Analytics(today time.Time, days int) *domain.Analytics {
	switch {
	case days == 0:
		days = DefaultStatsDays
	case days < 1:
		days = 1
	case days > MaxStatsDays:
		days = MaxStatsDays
	}

	habits := s.source.Habits()
	entries := s.source.Entries()

	active := make(map[int64]bool)
	for _, h := range habits {
		if h.IsActive {
			active[h.ID] = true
		}
	}

	completedByDate := make(map[string]int)
	byHabit := make(map[int64][]*domain.HabitEntry)
	completed := 0
	for _, e := range entries {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
		if !e.Completed {
			continue
		}
		completed++
		if active[e.HabitID] {
			completedByDate[e.Date]++
		}
	}

	stats := &domain.Analytics{
		Summary: domain.Summary{
			TotalHabits:       len(habits),
			ActiveHabits:      len(active),
			OverallCompletion: progress.Percent(completed, len(entries)),
			TotalCheckIns:     len(entries),
		},
		Daily:  make([]domain.DailyCompletion, 0, days),
		Habits: make([]domain.HabitPerformance, 0, len(habits)),
	}

	for _, date := range progress.DateRange(days, today) {
		done := completedByDate[date]
		stats.Daily = append(stats.Daily, domain.DailyCompletion{
			Date:       date,
			Completion: progress.Percent(done, len(active)),
			Completed:  done,
			Total:      len(active),
		})
	}

	for _, h := range habits {
		list := byHabit[h.ID]
		done := 0
		for _, e := range list {
			if e.Completed {
				done++
			}
		}

		stats.Habits = append(stats.Habits, domain.HabitPerformance{
			HabitID:    h.ID,
			Name:       chartName(h.Name),
			Completion: progress.CompletionRate(list),
			Total:      len(list),
			Completed:  done,
		})
	}

	return stats
}

func chartName(name string) string {
	if utf8.RuneCountInString(name) <= maxChartName {
		return name
	}
	return string([]rune(name)[:maxChartName]) + "..."
}
