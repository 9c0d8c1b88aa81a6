// Package handler provides HTTP handlers for match ledger endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	matchModel "github.com/festy23/league_engine/internal/match/model"
	"github.com/festy23/league_engine/internal/match/service"
)

// Handler handles HTTP requests for match endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new match handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateMatch handles POST /matches.
func (h *Handler) CreateMatch(c *gin.Context) {
	var req matchModel.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	match, err := h.service.CreateMatch(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, match)
}

// GetMatch handles GET /matches/:id.
func (h *Handler) GetMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	match, err := h.service.GetMatch(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// UpdateMatch handles PATCH /matches/:id.
func (h *Handler) UpdateMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req matchModel.UpdateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	match, err := h.service.UpdateMatch(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// FinishMatch handles POST /matches/:id/finish.
func (h *Handler) FinishMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	match, err := h.service.FinishMatch(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// DeleteMatch handles DELETE /matches/:id.
func (h *Handler) DeleteMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMatch(c.Request.Context(), id); err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
