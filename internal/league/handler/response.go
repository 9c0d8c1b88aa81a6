package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/apperror"
)

// errorResponse writes the error envelope for err. Server errors are logged.
func errorResponse(c *gin.Context, logger *zap.SugaredLogger, err error) {
	status, env := apperror.ToEnvelope(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, env)
}

// invalidRequest writes a validation envelope for malformed input.
func invalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apperror.Envelope{
		Code:    apperror.CodeInvalidQueryFormat,
		Message: message,
		Level:   apperror.LevelWarning,
	})
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		invalidRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
