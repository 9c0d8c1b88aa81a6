package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/apperror"
)

// Recovery returns a middleware that recovers from panics and answers with
// the server error envelope.
func Recovery(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"request_id", RequestIDFrom(c),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, apperror.Envelope{
					Code:    apperror.CodeServerError,
					Message: "internal server error",
					Level:   apperror.LevelError,
				})
			}
		}()

		c.Next()
	}
}
