package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/config"
	"github.com/festy23/league_engine/internal/events"
	"github.com/festy23/league_engine/internal/health"
	leagueRouter "github.com/festy23/league_engine/internal/league/router"
	matchRepository "github.com/festy23/league_engine/internal/match/repository"
	matchRouter "github.com/festy23/league_engine/internal/match/router"
	matchService "github.com/festy23/league_engine/internal/match/service"
	"github.com/festy23/league_engine/internal/metrics"
	"github.com/festy23/league_engine/internal/middleware"
	rankingRepository "github.com/festy23/league_engine/internal/ranking/repository"
	rankingRouter "github.com/festy23/league_engine/internal/ranking/router"
	rankingService "github.com/festy23/league_engine/internal/ranking/service"
	tournamentRepository "github.com/festy23/league_engine/internal/tournament/repository"
	tournamentRouter "github.com/festy23/league_engine/internal/tournament/router"
	tournamentService "github.com/festy23/league_engine/internal/tournament/service"
)

// newRouter builds the HTTP engine with every module wired. The tournament
// service is the match service's advancer, so it is built first.
func newRouter(
	cfg config.Config,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	reg *prometheus.Registry,
	publisher events.Publisher,
) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(),
	)

	r.GET("/health", health.New(db, logger).Check)
	r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	admin := middleware.AdminOnly(cfg.Auth, logger)

	rankings := rankingService.New(rankingRepository.New(db, logger), db, logger)
	tournaments := tournamentService.New(
		tournamentRepository.New(db, logger),
		db,
		logger,
		rankings,
		publisher,
		cfg.Engine.DefaultIntervalMinutes,
	)
	matches := matchService.New(matchRepository.New(db, logger), db, logger, rankings, tournaments, publisher)

	leagueRouter.RegisterRoutes(r, db, logger, admin)
	rankingRouter.RegisterRoutes(r, rankings, logger, admin)
	matchRouter.RegisterRoutes(r, matches, logger, admin)
	tournamentRouter.RegisterRoutes(r, tournaments, logger, admin)

	return r
}
