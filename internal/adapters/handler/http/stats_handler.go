package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

type StatsHandler struct {
	svc     *services.StatsService
	tracker *services.Tracker
	now     Clock
}

func NewStatsHandler(svc *services.StatsService, tracker *services.Tracker, now Clock) *StatsHandler {
	return &StatsHandler{svc: svc, tracker: tracker, now: now}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.Analytics)
	r.GET("/today", h.Today)
}

func (h *StatsHandler) Analytics(c *gin.Context) {
	days := services.DefaultStatsDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > services.MaxStatsDays {
			badRequest(c, "days must be between 1 and "+strconv.Itoa(services.MaxStatsDays))
			return
		}
		days = n
	}

	c.JSON(http.StatusOK, h.svc.Analytics(h.now(), days))
}

func (h *StatsHandler) Today(c *gin.Context) {
	summary := h.tracker.Today(h.now())
	c.JSON(http.StatusOK, gin.H{
		"date":          summary.Date,
		"completed":     summary.Completed,
		"active_habits": summary.ActiveHabits,
		"message":       strconv.Itoa(summary.Completed) + " of " + strconv.Itoa(summary.ActiveHabits) + " habits completed today",
	})
}
