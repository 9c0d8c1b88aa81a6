// Package router provides ranking module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/ranking/handler"
	"github.com/festy23/league_engine/internal/ranking/service"
)

// RegisterRoutes registers league ranking routes on top of an existing
// ranking service, which the match and tournament modules share.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger, admin gin.HandlerFunc) {
	h := handler.New(svc, logger)

	r.GET("/leagues/:id/ranking", h.GetTable)
	r.POST("/leagues/:id/ranking/rebuild", admin, h.Rebuild)
}
