// Package handler provides HTTP handlers for league ranking tables.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/ranking/service"
)

// Handler handles HTTP requests for ranking endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new ranking handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetTable handles GET /leagues/:id/ranking.
func (h *Handler) GetTable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	table, err := h.service.GetTable(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Rebuild handles POST /leagues/:id/ranking/rebuild.
func (h *Handler) Rebuild(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	table, err := h.service.RebuildLeague(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
