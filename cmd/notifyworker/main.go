// Command notifyworker drains the notify_email asynq queue and dispatches
// OTP, invite, and report-ready emails via SMTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironquill/assesspoint/internal/adapter/notify"
	"github.com/ironquill/assesspoint/internal/adapter/observability"
	asynqadp "github.com/ironquill/assesspoint/internal/adapter/queue/asynq"
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

	notifier := notify.New(cfg)

	worker, err := asynqadp.NewWorker(cfg.RedisURL, notifier)
	if err != nil {
		slog.Error("worker init failed", slog.Any("error", err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("notify worker starting")
		errCh <- worker.Start(context.Background())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			slog.Error("worker error", slog.Any("error", err))
		}
	}

	worker.Stop()
}
