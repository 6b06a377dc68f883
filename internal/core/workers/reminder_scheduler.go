package workers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

var (
	ErrInvalidReminderTime = errors.New("invalid reminder time (must be HH:MM)")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrHabitNameRequired   = errors.New("habit name is required")
)

var remindersSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kanso_reminders_sent_total",
		Help: "Reminders handed to the notifier, by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

func Collectors() []prometheus.Collector {
	return []prometheus.Collector{remindersSent}
}

type Reminder struct {
	ID        string    `json:"id"`
	HabitName string    `json:"habit_name"`
	Time      string    `json:"time"`
	FiresAt   time.Time `json:"fires_at"`
}

type job struct {
	kind         string
	notification Notification
}

type ReminderScheduler struct {
	notifier Notifier
	loc      *time.Location
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*pendingReminder

	jobs chan job
}

type pendingReminder struct {
	reminder Reminder
	timer    *time.Timer
}

func NewReminderScheduler(notifier Notifier, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
		pending:  make(map[string]*pendingReminder),
		jobs:     make(chan job, 100),
	}
}

// ParseClock parses a wall-clock "HH:MM" value.
func ParseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, ErrInvalidReminderTime
	}
	return t.Hour(), t.Minute(), nil
}

// NextOccurrence returns the next instant at hour:minute in now's location.
// A time equal to or earlier than now rolls over to the following day.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Schedule arms a one-shot reminder for the next occurrence of clock.
func (s *ReminderScheduler) Schedule(habitName, clock string) (*Reminder, error) {
	if !s.notifier.Permitted() {
		return nil, ErrNotificationsDenied
	}

	habitName = strings.TrimSpace(habitName)
	if habitName == "" {
		return nil, ErrHabitNameRequired
	}

	hour, minute, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	r := Reminder{
		ID:        uuid.NewString(),
		HabitName: habitName,
		Time:      fmt.Sprintf("%02d:%02d", hour, minute),
		FiresAt:   NextOccurrence(now, hour, minute),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[r.ID] = &pendingReminder{
		reminder: r,
		timer: time.AfterFunc(r.FiresAt.Sub(now), func() {
			s.fire(r.ID)
		}),
	}

	logger.Debug("Reminder scheduled", "id", r.ID, "habit", habitName, "fires_at", r.FiresAt)
	return &r, nil
}

func (s *ReminderScheduler) fire(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if ok {
		s.enqueue(job{kind: "scheduled", notification: scheduledNotification(p.reminder.HabitName)})
	}
}

func (s *ReminderScheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return ErrReminderNotFound
	}
	p.timer.Stop()
	delete(s.pending, id)
	return nil
}

// Pending lists armed reminders, soonest first.
func (s *ReminderScheduler) Pending() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reminder, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.reminder)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FiresAt.Before(out[j].FiresAt)
	})
	return out
}

// Nudge queues an immediate reminder for each named habit and returns how
// many were queued.
func (s *ReminderScheduler) Nudge(habitNames []string) (int, error) {
	if !s.notifier.Permitted() {
		return 0, ErrNotificationsDenied
	}

	queued := 0
	for _, name := range habitNames {
		if s.enqueue(job{kind: "nudge", notification: nudgeNotification(name)}) {
			queued++
		}
	}
	return queued, nil
}

func (s *ReminderScheduler) enqueue(j job) bool {
	select {
	case s.jobs <- j:
		return true
	default:
		logger.Warn("Reminder queue full, dropping notification", "habit", j.notification.HabitName)
		return false
	}
}

// Run delivers queued notifications until ctx is cancelled, then stops every
// pending timer.
func (s *ReminderScheduler) Run(ctx context.Context) {
	logger.Info("Reminder scheduler started")
	defer s.stopAll()

	for {
		select {
		case j := <-s.jobs:
			err := s.notifier.Notify(ctx, j.notification)
			outcome := "ok"
			if err != nil {
				outcome = "error"
				logger.Warn("Failed to deliver reminder", "habit", j.notification.HabitName, "err", err)
			}
			remindersSent.WithLabelValues(j.kind, outcome).Inc()
		case <-ctx.Done():
			logger.Info("Reminder scheduler shutting down")
			return
		}
	}
}

func (s *ReminderScheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}
