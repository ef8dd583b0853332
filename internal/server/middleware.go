package server

import (
	"net/http"
	"time"

	"application-relay/internal/common/errors"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/metrics"
	"application-relay/internal/common/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	// ContextKeyRequestID is read by handlers for log correlation.
	ContextKeyRequestID = "requestId"
)

// RequestID reuses an inbound X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestLogger logs one line per request. Bodies are never logged.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	zapLog := log.Zap()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("requestId", c.GetString(ContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
			zap.Int("bodySize", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= 500:
			zapLog.Error("HTTP request", fields...)
		case status >= 400:
			zapLog.Warn("HTTP request", fields...)
		default:
			zapLog.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns a panic into the generic internal failure outcome.
func Recovery(log logger.Logger) gin.HandlerFunc {
	zapLog := log.Zap()
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zapLog.Error("Panic recovered",
					zap.String("requestId", c.GetString(ContextKeyRequestID)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", rec),
					zap.Stack("stacktrace"),
				)
				outcome := errors.ToFailureOutcome(errors.NewInternalError(nil))
				c.AbortWithStatusJSON(http.StatusInternalServerError, outcome)
			}
		}()
		c.Next()
	}
}

// CORS allows the configured form origins. An empty list allows none.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", HeaderRequestID}
	cfg.ExposeHeaders = []string{HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	cfg.MaxAge = 12 * time.Hour

	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}

// BodyLimit caps how much of the request body handlers can read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// Instrument tracks in-flight requests and records per-route counts and latency.
func Instrument(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()

		gauge := metrics.RequestsInFlight.WithLabelValues(route)
		gauge.Inc()
		defer gauge.Dec()

		c.Next()

		status := c.Writer.Status()
		obs.RecordRequest(c.Request.Context(), route, status)
		obs.RecordDuration(c.Request.Context(), route, time.Since(start), status)
	}
}
