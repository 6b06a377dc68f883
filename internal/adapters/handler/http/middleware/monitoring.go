package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
)

// InitPrometheus registers the HTTP metrics and any extra collectors on reg.
func InitPrometheus(reg prometheus.Registerer, extra ...prometheus.Collector) {
	reg.MustRegister(httpRequestsTotal, httpRequestDuration, authRejections)
	for _, c := range extra {
		reg.MustRegister(c)
	}
}

// Monitor records request counts and latency. Paths are labelled with the
// route template so habit IDs do not explode the label set.
func Monitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())

		if status == 401 {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		}
	}
}

// RequestLogger tags each request with an ID and logs it once finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		c.Next()

		keyvals := []interface{}{
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "err", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", keyvals...)
		case status >= 400:
			logger.Warn("request", keyvals...)
		default:
			logger.Debug("request", keyvals...)
		}
	}
}
