package asynqadp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/domain"
)

// Worker consumes notify_email tasks and dispatches them via a
// domain.Notifier.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	notifier domain.Notifier
}

// NewWorker constructs a Worker against the given Redis connection string.
func NewWorker(redisURL string, notifier domain.Notifier) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("op=worker.new: %w", err)
	}
	srv := asynq.NewServer(opt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	w := &Worker{server: srv, mux: mux, notifier: notifier}

	mux.HandleFunc(TaskNotify, func(ctx context.Context, t *asynq.Task) error {
		tracer := otel.Tracer("queue.worker")
		ctx, span := tracer.Start(ctx, "NotifyEmail")
		defer span.End()

		var p NotifyTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("op=worker.notify: unmarshal: %w", err)
		}
		return handleNotify(ctx, w.notifier, p)
	})

	return w, nil
}

func handleNotify(ctx domain.Context, notifier domain.Notifier, p NotifyTaskPayload) error {
	observability.StartProcessingJob("notify")

	var err error
	switch p.Kind {
	case NotifyOTP:
		err = notifier.SendOTP(ctx, p.Email, p.Code)
	case NotifyInvite:
		err = notifier.SendInvite(ctx, p.Email, p.AssessmentURL)
	case NotifyReportReady:
		err = notifier.SendReportReady(ctx, p.Email, p.CandidateAssessmentID)
	default:
		err = fmt.Errorf("op=worker.notify: unknown kind %q", p.Kind)
	}

	if err != nil {
		observability.FailJob("notify")
		slog.Warn("notify task failed", slog.String("kind", string(p.Kind)), slog.Any("error", err))
		return err
	}
	observability.CompleteJob("notify")
	return nil
}

// Start begins processing tasks until shutdown.
func (w *Worker) Start(_ context.Context) error { return w.server.Start(w.mux) }

// Stop gracefully shuts down the worker server.
func (w *Worker) Stop() { w.server.Shutdown() }
