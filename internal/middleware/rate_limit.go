package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/response"
)

const rateLimitWindow = time.Second

// Counter counts hits per key within a window (Redis in production).
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitMiddleware allows limitPerSec requests per client IP; excess gets
// 429 (generic envelope code 1), a counter failure gets 503.
func RateLimitMiddleware(counter Counter, limitPerSec int, logger *zap.Logger) gin.HandlerFunc {
	limit := strconv.Itoa(limitPerSec)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := counter.Hit(ctx, c.ClientIP(), rateLimitWindow)
		if err != nil {
			logger.Warn("rate limit counter failed", zap.Error(err))
			response.Abort(c, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		c.Header("X-RateLimit-Limit", limit)
		if count > int64(limitPerSec) {
			c.Header("Retry-After", "1")
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
