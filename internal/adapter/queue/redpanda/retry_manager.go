package redpanda

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// RetryConfig bounds the retry/backoff policy applied to a proctoring event
// that failed classification or persistence.
type RetryConfig struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	BackoffBase  float64
}

// DefaultRetryConfig mirrors the exponential-backoff shape used elsewhere in
// this codebase (cenkalti/backoff's doubling, capped) without pulling in
// that dependency for three lines of arithmetic.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		BackoffBase: 2.0,
	}
}

func (c RetryConfig) delayFor(attempt int) time.Duration {
	d := float64(c.BaseDelay) * math.Pow(c.BackoffBase, float64(attempt))
	if d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// RetryManager retries a failed proctoring event inline up to MaxRetries,
// then routes it to the DLQ topic for manual review. Unlike the original
// job-evaluation pipeline, proctoring events carry no external "status"
// record to update — retry state lives entirely in the in-flight attempt
// counter, since a dropped proctoring event degrades (missing one severity
// signal) rather than corrupting candidate state.
type RetryManager struct {
	producer    *Producer
	dlqProducer *Producer
	config      RetryConfig
}

// NewRetryManager constructs a RetryManager.
func NewRetryManager(producer, dlqProducer *Producer, config RetryConfig) *RetryManager {
	return &RetryManager{producer: producer, dlqProducer: dlqProducer, config: config}
}

// HandleFailure retries processing raw (the original record bytes) up to
// config.MaxRetries, calling process again after each backoff; once
// exhausted, moves it to the DLQ topic.
func (rm *RetryManager) HandleFailure(ctx context.Context, candidateAssessmentID string, raw []byte, lastErr error, process func([]byte) error) error {
	code := classifyFailureCode(lastErr.Error())

	attempt := 0
	for attempt < rm.config.MaxRetries {
		delay := rm.config.delayFor(attempt)
		slog.Info("retrying proctoring event",
			slog.String("candidate_assessment_id", candidateAssessmentID),
			slog.String("failure_code", code),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if err := process(raw); err == nil {
			slog.Info("proctoring event retry succeeded",
				slog.String("candidate_assessment_id", candidateAssessmentID), slog.Int("attempt", attempt))
			return nil
		} else {
			lastErr = err
		}
		attempt++
	}

	slog.Warn("proctoring event exhausted retries, moving to DLQ",
		slog.String("candidate_assessment_id", candidateAssessmentID), slog.String("last_error", lastErr.Error()))
	return rm.moveToDLQ(ctx, candidateAssessmentID, raw, lastErr)
}

func (rm *RetryManager) moveToDLQ(ctx context.Context, candidateAssessmentID string, raw []byte, reason error) error {
	if rm.dlqProducer == nil {
		return fmt.Errorf("op=retry.move_to_dlq: no DLQ producer configured: %w", reason)
	}
	if err := rm.dlqProducer.EnqueueDLQ(ctx, candidateAssessmentID, raw); err != nil {
		return fmt.Errorf("op=retry.move_to_dlq: %w", err)
	}
	return nil
}

// isRetryable reports whether an error class is worth an inline retry at
// all (a schema-invalid payload never becomes valid on retry).
func isRetryable(code string) bool {
	return !strings.EqualFold(code, "SCHEMA_INVALID")
}
