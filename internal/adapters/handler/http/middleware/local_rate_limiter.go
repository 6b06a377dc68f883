package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter keeps one token bucket per client IP in process memory.
// It is used when no Redis is configured.
type LocalRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewLocalRateLimiter allows limit requests per window, with the whole
// window's budget available as a burst.
func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	return &LocalRateLimiter{
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		visitors: make(map[string]*visitor),
	}
}

func (l *LocalRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *LocalRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l.burst))
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests. Slow down!",
			})
			return
		}

		c.Next()
	}
}

// Cleanup drops visitors idle for longer than idle, every interval, until ctx
// is done.
func (l *LocalRateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evict(idle)
		case <-ctx.Done():
			return
		}
	}
}

func (l *LocalRateLimiter) evict(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(l.visitors, ip)
		}
	}
}
