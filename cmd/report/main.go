package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/brhas/safety-metrics-service/internal/adapter/http"
	"github.com/brhas/safety-metrics-service/internal/adapter/snapshot"
	"github.com/brhas/safety-metrics-service/internal/config"
	"github.com/brhas/safety-metrics-service/internal/domain"
	"github.com/brhas/safety-metrics-service/internal/observability"
	"github.com/brhas/safety-metrics-service/internal/report"
)

func main() {
	// Pick up a local .env if present; deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	loader := snapshot.NewLoader(cfg.DataDir, cfg.SnapshotCacheTTL, clock, logger, metrics)
	rules := domain.DefaultRules()
	builder := report.NewBuilder(loader, rules, domain.DefaultChecklistSchema(), logger, metrics, clock)

	srv := httpadapter.NewServer(cfg.HTTPAddr, builder, rules, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the snapshot cache and flip readiness before traffic arrives.
	builder.Build(report.Params{})
	logger.Info("initial report built", "data_dir", cfg.DataDir)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
