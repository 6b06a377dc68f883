package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

// Pinger is satisfied by the persistence store. It is nil for the in-memory
// backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	HabitHandler    *HabitHandler
	EntryHandler    *EntryHandler
	StatsHandler    *StatsHandler
	ReminderHandler *ReminderHandler
	AuthService     *services.AuthService

	Store        Pinger
	Redis        *redis.Client
	LocalLimiter *middleware.LocalRateLimiter
	RateLimit    int
	RateWindow   time.Duration

	Metrics   prometheus.Gatherer
	StartTime time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Monitor())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	switch {
	case deps.Redis != nil:
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow))
	case deps.LocalLimiter != nil:
		router.Use(deps.LocalLimiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "memory"
		if deps.Store != nil {
			dbStatus = "connected"
			if err := deps.Store.Ping(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthService))
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.EntryHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
		deps.ReminderHandler.RegisterRoutes(protected)
	}

	return router
}
