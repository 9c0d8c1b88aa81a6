// Package handler provides HTTP handlers for team and league endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	leagueModel "github.com/festy23/league_engine/internal/league/model"
	"github.com/festy23/league_engine/internal/league/service"
)

// Handler handles HTTP requests for team and league endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new league handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTeam handles POST /teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req leagueModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "invalid request body")
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /teams/:id.
func (h *Handler) GetTeam(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// CreateLeague handles POST /leagues.
func (h *Handler) CreateLeague(c *gin.Context) {
	var req leagueModel.CreateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.CreateLeague(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetLeague handles GET /leagues/:id.
func (h *Handler) GetLeague(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetLeague(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddTeams handles POST /leagues/:id/teams.
func (h *Handler) AddTeams(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req leagueModel.AddTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.AddTeams(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
