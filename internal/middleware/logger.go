// Package middleware provides HTTP middleware functions.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger returns a middleware that writes one structured line per request.
// Client errors log at warn, server errors at error.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"status", status,
			"method", req.Method,
			"path", req.URL.Path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		kv = appendIf(kv, "request_id", RequestIDFrom(c), RequestIDFrom(c) != "")
		kv = appendIf(kv, "query", req.URL.RawQuery, req.URL.RawQuery != "")
		kv = appendIf(kv, "size", c.Writer.Size(), c.Writer.Size() > 0)
		kv = appendIf(kv, "errors", c.Errors.String(), len(c.Errors) > 0)

		log := logger.Infow
		if status >= 500 {
			log = logger.Errorw
		} else if status >= 400 {
			log = logger.Warnw
		}
		log("HTTP request", kv...)
	}
}

func appendIf(kv []any, key string, value any, ok bool) []any {
	if !ok {
		return kv
	}
	return append(kv, key, value)
}
