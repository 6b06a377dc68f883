package domain

type Analytics struct {
	Summary Summary            `json:"summary"`
	Daily   []DailyCompletion  `json:"daily"`
	Habits  []HabitPerformance `json:"habits"`
}

type Summary struct {
	TotalHabits       int `json:"total_habits"`
	ActiveHabits      int `json:"active_habits"`
	OverallCompletion int `json:"overall_completion"`
	TotalCheckIns     int `json:"total_check_ins"`
}

type DailyCompletion struct {
	Date       string `json:"date"`
	Completion int    `json:"completion"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

type HabitPerformance struct {
	HabitID    int64  `json:"habit_id"`
	Name       string `json:"name"`
	Completion int    `json:"completion"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
}

// DayStatus is one cell of the seven day strip on a habit card.
type DayStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Targeted  bool   `json:"targeted"`
}

type HabitCard struct {
	Habit          *Habit      `json:"habit"`
	Streak         int         `json:"streak"`
	LongestStreak  int         `json:"longest_streak"`
	CompletionRate int         `json:"completion_rate"`
	CompletedToday bool        `json:"completed_today"`
	Week           []DayStatus `json:"week"`
}

type TodaySummary struct {
	Date         string `json:"date"`
	Completed    int    `json:"completed"`
	ActiveHabits int    `json:"active_habits"`
}
