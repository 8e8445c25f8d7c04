// Package asynqadp decouples notification dispatch from the synchronous
// request path: OTP issue, invite send, and report-ready notices enqueue a
// task here instead of blocking the HTTP handler on an SMTP round trip.
package asynqadp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/domain"
)

const TaskNotify = "notify_email"

// NotifyKind selects which Notifier method the worker invokes.
type NotifyKind string

const (
	NotifyOTP          NotifyKind = "otp"
	NotifyInvite       NotifyKind = "invite"
	NotifyReportReady  NotifyKind = "report_ready"
)

// NotifyTaskPayload is the JSON body of a notify_email task.
type NotifyTaskPayload struct {
	Kind                  NotifyKind `json:"kind"`
	Email                 string     `json:"email"`
	Code                  string     `json:"code,omitempty"`
	AssessmentURL         string     `json:"assessmentUrl,omitempty"`
	CandidateAssessmentID string     `json:"candidateAssessmentId,omitempty"`
}

// Queue enqueues notify tasks onto asynq's Redis-backed queue.
type Queue struct {
	client *asynq.Client
}

// New constructs a Queue against the given Redis connection string.
func New(redisURL string) (*Queue, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("op=queue.new: parse redis url: %w", err)
	}
	return &Queue{client: asynq.NewClient(opt)}, nil
}

// Enqueue schedules a notification task with up to 5 retries; asynq keeps
// the finished task for 24h.
func (q *Queue) Enqueue(ctx domain.Context, p NotifyTaskPayload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: marshal: %w", err)
	}
	t := asynq.NewTask(TaskNotify, b)
	info, err := q.client.EnqueueContext(ctx, t, asynq.MaxRetry(5), asynq.Retention(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	observability.EnqueueJob("notify")
	return info.ID, nil
}

// Close releases the underlying Redis connection.
func (q *Queue) Close() error {
	return q.client.Close()
}
