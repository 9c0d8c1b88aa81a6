// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/festy23/league_engine/internal/config"
	"github.com/festy23/league_engine/internal/database/database"
	"github.com/festy23/league_engine/internal/database/migrate"
	"github.com/festy23/league_engine/internal/events"
	"github.com/festy23/league_engine/internal/metrics"
	"github.com/festy23/league_engine/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	db, err := database.New(sugar)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			sugar.Warnw("failed to close database", "error", err)
		}
	}()

	if err := migrate.MigrateFrom(db, cfg.MigrationsPath); err != nil {
		sugar.Fatalw("failed to apply migrations", "error", err)
	}

	reg, err := metrics.NewRegistry()
	if err != nil {
		sugar.Fatalw("failed to register metrics", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	r := newRouter(cfg, db, sugar, reg, events.NewLogPublisher(sugar))

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		sugar.Infow("server listening", "addr", srv.Addr, "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			sugar.Errorw("server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
