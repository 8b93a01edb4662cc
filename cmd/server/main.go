// Command taskfence-server starts the task-tracking HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taskfence/taskfence/internal/auth"
	"github.com/taskfence/taskfence/internal/config"
	"github.com/taskfence/taskfence/internal/migrate"
	"github.com/taskfence/taskfence/internal/repository/postgres"
	httpserver "github.com/taskfence/taskfence/internal/server/http"
	"github.com/taskfence/taskfence/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the HTTP server.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("config", zap.Error(err))
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.Level(cfg.LogLevel))
	logger, _ := zcfg.Build()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema is applied once here, before the listener accepts anything.
	if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	taskRepo := postgres.NewTaskRepo(db)
	taskSvc := service.NewTaskService(taskRepo)
	verifier := auth.NewVerifier([]byte(cfg.Auth.Secret))

	handlers := httpserver.NewHandlers(taskSvc, db.Pool, cfg.HealthTimeout, logger)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Handlers: handlers,
		Verifier: verifier,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
