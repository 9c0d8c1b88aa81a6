// Package router provides match module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/match/handler"
	"github.com/festy23/league_engine/internal/match/service"
)

// RegisterRoutes registers match ledger routes. Writes go through admin.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger, admin gin.HandlerFunc) {
	h := handler.New(svc, logger)

	r.POST("/matches", admin, h.CreateMatch)
	r.GET("/matches/:id", h.GetMatch)
	r.PATCH("/matches/:id", admin, h.UpdateMatch)
	r.POST("/matches/:id/finish", admin, h.FinishMatch)
	r.DELETE("/matches/:id", admin, h.DeleteMatch)
}
