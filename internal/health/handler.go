// Package health serves the liveness probe.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/database/database"
)

const pingTimeout = 5 * time.Second

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Response is the health payload. Connection counts are omitted when the
// database is unreachable.
type Response struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	OpenConnections *int   `json:"openConnections,omitempty"`
	InUse           *int   `json:"inUse,omitempty"`
}

// Check handles GET /health.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy", Database: "down"})
		return
	}

	resp := Response{Status: "ok", Database: h.db.Dialector.Name()}
	if stats, err := database.GetStats(h.db); err == nil {
		resp.OpenConnections = &stats.OpenConnections
		resp.InUse = &stats.InUse
	}
	c.JSON(http.StatusOK, resp)
}
