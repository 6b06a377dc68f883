package progress

import (
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

// completedDays returns the distinct days with a completed entry, most
// recent first. Nil entries and malformed dates are skipped.
func completedDays(entries []*domain.HabitEntry) []time.Time {
	seen := make(map[string]bool)
	var days []time.Time

	for _, e := range entries {
		if e == nil || !e.Completed || seen[e.Date] {
			continue
		}
		t, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		seen[e.Date] = true
		days = append(days, t)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})
	return days
}

// CalculateStreak counts consecutive completed days ending today. A day
// without a completed entry today yields zero even if yesterday was done.
func CalculateStreak(entries []*domain.HabitEntry, today time.Time) int {
	days := completedDays(entries)

	streak := 0
	for i, day := range days {
		if DaysBetween(day, today) != i {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days found
// anywhere in the history.
func LongestStreak(entries []*domain.HabitEntry) int {
	days := completedDays(entries)
	if len(days) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if DaysBetween(days[i+1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate is the rounded percentage of completed entries. Nil
// entries are ignored and an empty input gives zero.
func CompletionRate(entries []*domain.HabitEntry) int {
	total := 0
	completed := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		total++
		if e.Completed {
			completed++
		}
	}
	return Percent(completed, total)
}

// Percent returns round(100*part/whole), or zero when whole is zero.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
