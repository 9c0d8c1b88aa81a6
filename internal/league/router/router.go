// Package router provides league module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/league/handler"
	"github.com/festy23/league_engine/internal/league/repository"
	"github.com/festy23/league_engine/internal/league/service"
)

// RegisterRoutes registers team and league routes. Writes go through admin.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, logger *zap.SugaredLogger, admin gin.HandlerFunc) {
	repo := repository.New(db, logger)
	svc := service.New(repo, db, logger)
	h := handler.New(svc, logger)

	r.POST("/teams", admin, h.CreateTeam)
	r.GET("/teams/:id", h.GetTeam)
	r.POST("/leagues", admin, h.CreateLeague)
	r.GET("/leagues/:id", h.GetLeague)
	r.POST("/leagues/:id/teams", admin, h.AddTeams)
}
