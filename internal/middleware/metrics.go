package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festy23/league_engine/internal/metrics"
)

// Metrics records request count and latency by matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method, code).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, code).Inc()
	}
}
