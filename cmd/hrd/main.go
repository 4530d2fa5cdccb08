// hrd is the HR service daemon: HTTP API over the contract extraction
// pipeline and the employee store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/loomi-hq/hr-service/internal/app"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/export"
	"github.com/loomi-hq/hr-service/internal/ingest"
	"github.com/loomi-hq/hr-service/internal/repository"
	"github.com/loomi-hq/hr-service/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Server.APIKey == "" {
		logger.Warn("LOOMI_API_KEY not set; all authenticated requests will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, repo, cleanup, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	parser := app.NewParser(cfg, logger)
	ingestSvc := ingest.NewService(parser, repo, logger)
	exportSvc := export.NewService(repo, cfg.Export.ExpiryWarningDays, logger)

	health := func(ctx context.Context) error {
		return repository.HealthCheck(ctx, pool, 3*time.Second, logger)
	}
	srv := server.New(cfg.Server, ingestSvc, repo, exportSvc, health, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
