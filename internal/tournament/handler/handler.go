// Package handler provides HTTP handlers for tournament endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	tournamentModel "github.com/festy23/league_engine/internal/tournament/model"
	"github.com/festy23/league_engine/internal/tournament/service"
)

// Handler handles HTTP requests for tournament endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new tournament handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTournament handles POST /tournaments.
func (h *Handler) CreateTournament(c *gin.Context) {
	var req tournamentModel.CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	tournament, err := h.service.CreateTournament(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tournament)
}

// GetTournament handles GET /tournaments/:id.
func (h *Handler) GetTournament(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}

	overview, err := h.service.GetTournament(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// AutoAssignGroups handles POST /tournaments/:id/groups/auto.
func (h *Handler) AutoAssignGroups(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}
	var req tournamentModel.AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	tournament, err := h.service.AutoAssignGroups(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tournament)
}

// SetGroupTeams handles PUT /groups/:id/teams.
func (h *Handler) SetGroupTeams(c *gin.Context) {
	id, ok := pathID(c, "group")
	if !ok {
		return
	}
	var req tournamentModel.SetGroupTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	group, err := h.service.SetGroupTeams(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// GenerateSchedule handles POST /tournaments/:id/schedule.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}
	var req tournamentModel.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	schedule, err := h.service.GenerateSchedule(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// GetStandings handles GET /tournaments/:id/standings.
func (h *Handler) GetStandings(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}

	standings, err := h.service.GetStandings(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}

// SetKnockoutConfig handles PUT /tournaments/:id/knockout/config.
func (h *Handler) SetKnockoutConfig(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}
	var req tournamentModel.KnockoutConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	cfg, err := h.service.SetKnockoutConfig(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GenerateKnockout handles POST /tournaments/:id/knockout.
func (h *Handler) GenerateKnockout(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}
	var req tournamentModel.GenerateKnockoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	bracket, err := h.service.GenerateKnockout(c.Request.Context(), id, &req)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bracket)
}

// GetBracket handles GET /tournaments/:id/knockout.
func (h *Handler) GetBracket(c *gin.Context) {
	id, ok := pathID(c, "tournament")
	if !ok {
		return
	}

	bracket, err := h.service.GetBracket(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bracket)
}
