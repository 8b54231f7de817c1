package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/metrics"
)

// Metrics records request counts and latencies by routing mode.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := metrics.NewTimer()

		c.Next()

		mode := Mode(c)
		metrics.HTTPRequestsTotal.WithLabelValues(mode, strconv.Itoa(c.Writer.Status())).Inc()
		timer.ObserveDuration(metrics.HTTPRequestDuration.WithLabelValues(mode))
	}
}
