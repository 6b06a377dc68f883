package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

// Context is handed to every command's Run method by kong.
type Context struct {
	Tracker *services.Tracker
	Stats   *services.StatsService
	Now     func() time.Time
	In      io.Reader
	Out     io.Writer
}

var (
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	missedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	archivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func swatch(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) today() string {
	return c.Now().Format(domain.DateLayout)
}

var weekdayNames = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// ParseWeekdays parses a comma separated list of day names or numbers
// (0=Sunday). An empty string means every day.
func ParseWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if d, ok := weekdayNames[part]; ok {
			days = append(days, d)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, n)
	}
	return days, nil
}

func formatWeekdays(days []int) string {
	if len(days) == 7 {
		return "every day"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, time.Weekday(d).String()[:3])
	}
	return strings.Join(names, ",")
}
