// Command proctconsumer drains proctoring events from Redpanda, classifies
// severity, and persists them alongside the candidate's running counters.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/adapter/queue/redpanda"
	"github.com/ironquill/assesspoint/internal/adapter/repo/postgres"
	"github.com/ironquill/assesspoint/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.SetAppEnv(cfg.AppEnv)
	observability.InitMetrics()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	proctoringRepo := postgres.NewProctoringRepo(pool)
	candidateRepo := postgres.NewCandidateRepo(pool)

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, "assesspoint-proctoring-consumers", proctoringRepo, candidateRepo)
	if err != nil {
		slog.Error("consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("consumer close failed", slog.Any("error", err))
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("proctoring consumer starting")
		errCh <- consumer.Start(runCtx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			slog.Error("consumer error", slog.Any("error", err))
		}
	}

	cancel()
}
