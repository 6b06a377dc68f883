package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/progress"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

type EntryHandler struct {
	tracker *services.Tracker
	now     Clock
}

func NewEntryHandler(tracker *services.Tracker, now Clock) *EntryHandler {
	return &EntryHandler{
		tracker: tracker,
		now:     now,
	}
}

type toggleRequest struct {
	Completed *bool   `json:"completed" binding:"required"`
	Notes     *string `json:"notes"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/entries", h.ListByHabit)
	router.PUT("/habits/:id/entries/:date", h.Toggle)
	router.GET("/entries", h.ListByDate)
}

func (h *EntryHandler) ListByHabit(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	if _, err := h.tracker.Habit(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.tracker.EntriesFor(id))
}

// Toggle sets the completion state for one habit on one day. The date path
// segment may be "today".
func (h *EntryHandler) Toggle(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	date := c.Param("date")
	if date == "today" {
		date = progress.FormatDate(h.now())
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be {\"completed\": bool, \"notes\"?: string}")
		return
	}

	entry, err := h.tracker.Toggle(c.Request.Context(), id, date, *req.Completed, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListByDate defaults to today when no date is given.
func (h *EntryHandler) ListByDate(c *gin.Context) {
	date := c.DefaultQuery("date", progress.FormatDate(h.now()))

	entries, err := h.tracker.EntriesOn(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
