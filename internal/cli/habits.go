package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/progress"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

type AddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." short:"d"`
	Color       string `help:"Swatch color as #RRGGBB (default: first palette color)."`
	Days        string `help:"Target weekdays, e.g. mon,wed,fri (default: every day)."`
}

func (c *AddCmd) Run(ctx *Context) error {
	days, err := ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.AddHabit(context.Background(), services.CreateHabitInput{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		TargetDays:  days,
	})
	if err != nil {
		return err
	}

	ctx.printf("%s Added habit #%d: %s\n", swatch(habit.Color), habit.ID, habit.Name)
	return nil
}

type ListCmd struct {
	All bool `help:"Include archived habits." short:"a"`
}

func (c *ListCmd) Run(ctx *Context) error {
	cards := ctx.Tracker.Cards(ctx.Now(), !c.All)
	if len(cards) == 0 {
		ctx.printf("No habits found.\n")
		return nil
	}

	for _, card := range cards {
		h := card.Habit

		var week strings.Builder
		for _, day := range card.Week {
			if day.Completed {
				week.WriteString(doneStyle.Render("●"))
			} else {
				week.WriteString(missedStyle.Render("○"))
			}
		}

		status := ""
		if !h.IsActive {
			status = " " + archivedStyle.Render("[archived]")
		}

		ctx.printf("%s #%-3d %-24s %s  streak %d  %d%%  (%s)%s\n",
			swatch(h.Color), h.ID, h.Name, week.String(), card.Streak, card.CompletionRate,
			formatWeekdays(h.TargetDays), status)
	}
	return nil
}

type ToggleCmd struct {
	ID   int64  `arg:"" help:"Habit ID."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note string `help:"Optional note for this entry."`
}

// Run flips the completion state for the day.
func (c *ToggleCmd) Run(ctx *Context) error {
	date := c.Date
	if date == "" {
		date = ctx.today()
	}
	if _, err := progress.ParseDate(date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}

	completed := true
	for _, e := range ctx.Tracker.EntriesFor(c.ID) {
		if e.Date == date {
			completed = !e.Completed
		}
	}

	var notes *string
	if c.Note != "" {
		notes = &c.Note
	}

	if _, err := ctx.Tracker.Toggle(context.Background(), c.ID, date, completed, notes); err != nil {
		return err
	}

	if completed {
		ctx.printf("%s Marked habit #%d for %s\n", doneStyle.Render("✓"), c.ID, date)
	} else {
		ctx.printf("%s Unmarked habit #%d for %s\n", missedStyle.Render("○"), c.ID, date)
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	habit, err := ctx.Tracker.Habit(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.DeleteHabit(context.Background(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit #%d: %s\n", habit.ID, habit.Name)
	return nil
}

type ArchiveCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *ArchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.Tracker.SetActive(context.Background(), c.ID, false)
	if err != nil {
		return err
	}
	ctx.printf("Archived habit #%d: %s\n", habit.ID, habit.Name)
	return nil
}

type RestoreCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *RestoreCmd) Run(ctx *Context) error {
	habit, err := ctx.Tracker.SetActive(context.Background(), c.ID, true)
	if err != nil {
		return err
	}
	ctx.printf("Restored habit #%d: %s\n", habit.ID, habit.Name)
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	summary := ctx.Tracker.Today(ctx.Now())
	ctx.printf("%d of %d habits completed today\n", summary.Completed, summary.ActiveHabits)
	return nil
}

type StatsCmd struct {
	Days int `help:"Number of days in the daily series." default:"30"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if c.Days < 1 || c.Days > services.MaxStatsDays {
		return fmt.Errorf("days must be between 1 and %d", services.MaxStatsDays)
	}

	stats := ctx.Stats.Analytics(ctx.Now(), c.Days)
	s := stats.Summary

	ctx.printf("%s\n", headerStyle.Render("Summary"))
	ctx.printf("Total habits:       %d\n", s.TotalHabits)
	ctx.printf("Active habits:      %d\n", s.ActiveHabits)
	ctx.printf("Overall completion: %d%%\n", s.OverallCompletion)
	ctx.printf("Total check-ins:    %d\n\n", s.TotalCheckIns)

	ctx.printf("%s\n", headerStyle.Render(fmt.Sprintf("Last %d days", c.Days)))
	for _, d := range stats.Daily {
		ctx.printf("%s %3d%% %s\n", d.Date, d.Completion, bar(d.Completion))
	}

	if len(stats.Habits) > 0 {
		ctx.printf("\n%s\n", headerStyle.Render("Habits"))
	}
	for _, h := range stats.Habits {
		ctx.printf("%-18s %3d%%  %d/%d\n", h.Name, h.Completion, h.Completed, h.Total)
	}
	return nil
}

func bar(percent int) string {
	n := percent / 5
	return doneStyle.Render(strings.Repeat("█", n)) + missedStyle.Render(strings.Repeat("·", 20-n))
}

