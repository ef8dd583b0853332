package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"application-relay/internal/common/errors"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

const rateLimitKeyPrefix = "relay:ratelimit:"

// WindowCounter is satisfied by database.RedisClient.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
}

// RateLimiter is a fixed-window per-client-IP limiter backed by a shared
// counter store. Store errors admit the request.
type RateLimiter struct {
	store  WindowCounter
	limit  int
	window time.Duration
	logger logger.Logger
}

func NewRateLimiter(store WindowCounter, limit int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: log,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()

		count, err := rl.store.IncrWindow(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("Rate limit store unavailable, admitting request", map[string]interface{}{
				"requestId": c.GetString(ContextKeyRequestID),
				"error":     err.Error(),
			})
			c.Next()
			return
		}

		remaining := int64(rl.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.limit) {
			metrics.RateLimitedTotal.Inc()
			retryAfter := rl.retryAfter(c.Request.Context(), key)
			stdErr := errors.NewRateLimitedError(retryAfter)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ToFailureOutcome(stdErr))
			return
		}

		c.Next()
	}
}

// retryAfter is the time left in the current window, rounded up to whole
// seconds. It falls back to the full window when the TTL is unknown.
func (rl *RateLimiter) retryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := rl.store.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		return rl.window
	}
	return time.Duration(math.Ceil(ttl.Seconds())) * time.Second
}

// Healthy reports whether the counter store answers.
func (rl *RateLimiter) Healthy(ctx context.Context) error {
	return rl.store.Ping(ctx)
}
