package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/workers"
)

type ReminderHandler struct {
	scheduler *workers.ReminderScheduler
	tracker   *services.Tracker
	now       Clock
}

func NewReminderHandler(scheduler *workers.ReminderScheduler, tracker *services.Tracker, now Clock) *ReminderHandler {
	return &ReminderHandler{
		scheduler: scheduler,
		tracker:   tracker,
		now:       now,
	}
}

type scheduleRequest struct {
	HabitName string `json:"habit_name"`
	Time      string `json:"time"`
}

func (h *ReminderHandler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.GET("", h.List)
		reminders.POST("", h.Schedule)
		reminders.DELETE("/:id", h.Cancel)
		reminders.POST("/nudge", h.Nudge)
	}
}

func (h *ReminderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Pending())
}

func (h *ReminderHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reminder, err := h.scheduler.Schedule(req.HabitName, req.Time)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

func (h *ReminderHandler) Cancel(c *gin.Context) {
	if err := h.scheduler.Cancel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Nudge reminds about every active habit not yet completed today.
func (h *ReminderHandler) Nudge(c *gin.Context) {
	var names []string
	for _, card := range h.tracker.Cards(h.now(), true) {
		if !card.CompletedToday {
			names = append(names, card.Habit.Name)
		}
	}

	queued, err := h.scheduler.Nudge(names)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}
