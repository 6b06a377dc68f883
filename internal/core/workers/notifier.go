package workers

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

var ErrNotificationsDenied = errors.New("notification permission not granted")

type Notification struct {
	HabitName string `json:"habit_name"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// Notifier delivers reminders to the user. Permitted reports whether the
// user allowed notifications at all.
type Notifier interface {
	Permitted() bool
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) Permitted() bool { return true }

func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger.Info(n.Title, "body", n.Body, "habit", n.HabitName)
	return nil
}

// DisabledNotifier is used when notification permission was denied.
type DisabledNotifier struct{}

func (DisabledNotifier) Permitted() bool { return false }

func (DisabledNotifier) Notify(ctx context.Context, n Notification) error {
	return ErrNotificationsDenied
}

func scheduledNotification(habitName string) Notification {
	return Notification{
		HabitName: habitName,
		Title:     "Habit Reminder: " + habitName,
		Body:      "Time to work on your " + habitName + " habit!",
	}
}

func nudgeNotification(habitName string) Notification {
	return Notification{
		HabitName: habitName,
		Title:     "Don't forget: " + habitName,
		Body:      "You haven't checked in today!",
	}
}
