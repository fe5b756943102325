// Package main implements the entry point for the HanziDeck API server,
// which schedules users' spaced repetition flashcard reviews across the
// supported study modes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanzideck/hanzideck-api/internal/api"
	"github.com/hanzideck/hanzideck-api/internal/config"
	"github.com/hanzideck/hanzideck-api/internal/domain/srs"
	"github.com/hanzideck/hanzideck-api/internal/platform/logger"
	"github.com/hanzideck/hanzideck-api/internal/platform/postgres"
	"github.com/hanzideck/hanzideck-api/internal/service/study"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run wires configuration, storage and the HTTP surface together, then
// serves until interrupted.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	cardStore := postgres.NewPostgresCardStore(db, appLogger)
	progressStore := postgres.NewPostgresProgressStore(db, appLogger)
	logStore := postgres.NewPostgresReviewLogStore(db, appLogger)

	studyService := study.NewStudyService(
		db,
		cardStore,
		progressStore,
		logStore,
		srs.NewDefaultService(),
		appLogger,
	)

	studyHandler := api.NewStudyHandler(
		studyService,
		cfg.Study.DueLimit,
		cfg.Study.NewLimit,
		appLogger,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(studyHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		appLogger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	appLogger.Info("server stopped")
	return nil
}
