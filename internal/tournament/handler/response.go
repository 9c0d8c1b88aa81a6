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
	} else {
		logger.Debugw("request rejected", "path", c.FullPath(), "code", env.Code, "error", err)
	}
	c.JSON(status, env)
}

func invalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, apperror.Envelope{
		Code:    apperror.CodeInvalidQueryFormat,
		Message: "invalid request body: " + err.Error(),
		Level:   apperror.LevelWarning,
	})
}

// pathID parses the :id parameter. what names the resource in the message.
func pathID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apperror.Envelope{
			Code:    apperror.CodeInvalidQueryFormat,
			Message: what + " id must be a positive integer",
			Level:   apperror.LevelWarning,
			Fields:  []string{"id"},
		})
		return 0, false
	}
	return uint(id), true
}
