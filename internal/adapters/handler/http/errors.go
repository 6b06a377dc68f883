package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/workers"
)

// respondError maps domain errors onto status codes. Anything unknown is a
// 500 with a generic body; the cause goes to the request log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrHabitNameTooLong),
		errors.Is(err, domain.ErrHabitDescTooLong),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidWeekdays),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, workers.ErrInvalidReminderTime),
		errors.Is(err, workers.ErrHabitNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
	case errors.Is(err, workers.ErrReminderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, workers.ErrNotificationsDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAccessLockDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageFull):
		_ = c.Error(err)
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": "storage is full"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
