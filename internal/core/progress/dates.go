// Package progress holds the pure date, streak and completion-rate helpers
// shared by the tracker, the analytics service and the CLI.
package progress

import (
	"time"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

// FormatDate returns the canonical day key of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// ParseDate parses a day key. The result is midnight UTC of that civil date.
func ParseDate(key string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, key)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// DateRange lists the last n day keys, oldest first, ending with today.
func DateRange(n int, today time.Time) []string {
	if n <= 0 {
		return nil
	}

	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, FormatDate(today.AddDate(0, 0, -i)))
	}
	return dates
}

// civil strips time and zone so that day arithmetic ignores DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}
