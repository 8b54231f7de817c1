package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is read from the request and echoed on the response.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "fireportal.request_id"
	modeKey      = "fireportal.mode"
)

// SetMode records the routing mode of the request for logging and metrics.
func SetMode(c *gin.Context, mode string) {
	c.Set(modeKey, mode)
}

// Mode returns the routing mode recorded by SetMode, "dashboard" by default.
func Mode(c *gin.Context) string {
	if m := c.GetString(modeKey); m != "" {
		return m
	}
	return "dashboard"
}

// RequestID returns the request id assigned by SlogRequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// SlogRequestLogger assigns a request id and logs every request after it
// completes.
func SlogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if logger != nil {
			logger.Info("http request",
				"method", method,
				"host", c.Request.Host,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
				"mode", Mode(c),
				"request_id", id,
			)
		}
	}
}
