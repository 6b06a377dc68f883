package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

// Clock returns the current time in the tracker's configured zone.
type Clock func() time.Time

type HabitHandler struct {
	tracker *services.Tracker
	now     Clock
}

func NewHabitHandler(tracker *services.Tracker, now Clock) *HabitHandler {
	return &HabitHandler{
		tracker: tracker,
		now:     now,
	}
}

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	TargetDays  []int  `json:"target_days"`
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.POST("", h.Create)
		habits.PUT("/:id/active", h.SetActive)
		habits.DELETE("/:id", h.Delete)
	}
}

func habitID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid habit id")
		return 0, false
	}
	return id, true
}

// List returns habit cards. ?active=true hides archived habits.
func (h *HabitHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	c.JSON(http.StatusOK, h.tracker.Cards(h.now(), activeOnly))
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	habit, err := h.tracker.AddHabit(c.Request.Context(), services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		TargetDays:  req.TargetDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) SetActive(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be {\"active\": bool}")
		return
	}

	habit, err := h.tracker.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteHabit(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
