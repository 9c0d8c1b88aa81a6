// Package router provides tournament module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/tournament/handler"
	"github.com/festy23/league_engine/internal/tournament/service"
)

// RegisterRoutes registers tournament, group and knockout routes. Writes go
// through admin.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger, admin gin.HandlerFunc) {
	h := handler.New(svc, logger)

	r.POST("/tournaments", admin, h.CreateTournament)
	r.GET("/tournaments/:id", h.GetTournament)
	r.POST("/tournaments/:id/groups/auto", admin, h.AutoAssignGroups)
	r.PUT("/groups/:id/teams", admin, h.SetGroupTeams)
	r.POST("/tournaments/:id/schedule", admin, h.GenerateSchedule)
	r.GET("/tournaments/:id/standings", h.GetStandings)
	r.PUT("/tournaments/:id/knockout/config", admin, h.SetKnockoutConfig)
	r.POST("/tournaments/:id/knockout", admin, h.GenerateKnockout)
	r.GET("/tournaments/:id/knockout", h.GetBracket)
}
