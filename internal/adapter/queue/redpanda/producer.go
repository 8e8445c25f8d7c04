// Package redpanda publishes and consumes proctoring events over a
// Kafka-compatible broker (C9): ingest appends to the "proctoring.events"
// topic with exactly-once semantics, decoupling the HTTP ingest handler from
// severity classification and persistence so a burst of webcam/focus events
// never contends with the candidate's answer-submission lock.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/domain"
)

// TopicProctoringEvents is the Kafka/Redpanda topic carrying raw,
// not-yet-classified proctoring events.
const TopicProctoringEvents = "proctoring.events"

// TopicProctoringDLQ receives events that exhausted retries.
const TopicProctoringDLQ = "proctoring.events.dlq"

// wireEvent is the on-wire JSON shape for domain.ProctoringEventRaw.
type wireEvent struct {
	CandidateAssessmentID string                     `json:"candidateAssessmentId"`
	Type                  domain.ProctoringEventType `json:"type"`
	Section               domain.Section             `json:"section"`
	QuestionID            string                     `json:"questionId,omitempty"`
	Evidence              map[string]any             `json:"evidence,omitempty"`
	ScreenshotRef         string                     `json:"screenshotRef,omitempty"`
	OccurredAt            string                     `json:"occurredAt"`
}

func toWire(raw domain.ProctoringEventRaw) wireEvent {
	return wireEvent{
		CandidateAssessmentID: raw.CandidateAssessmentID,
		Type:                  raw.Type,
		Section:               raw.Section,
		QuestionID:            raw.QuestionID,
		Evidence:              raw.Evidence,
		ScreenshotRef:         raw.ScreenshotRef,
		OccurredAt:            raw.OccurredAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// Producer wraps a Kafka/Redpanda producer and implements
// domain.ProctoringEventBus.
type Producer struct {
	client          *kgo.Client
	topic           string
	transactionChan chan struct{}
}

// NewProducer constructs a Producer with exactly-once semantics against
// TopicProctoringEvents.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "assesspoint-proctoring-producer", TopicProctoringEvents)
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID and target topic, useful for test isolation.
func NewProducerWithTransactionalID(brokers []string, transactionalID, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=producer.new: no seed brokers provided")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("op=producer.new: redpanda client: %w", err)
	}

	ctx := context.Background()
	if err := createOptimizedTopicForParallelProcessing(ctx, client, topic, 8, 1); err != nil {
		slog.Warn("falling back to standard topic creation", slog.String("topic", topic), slog.Any("error", err))
		if err := createTopicIfNotExists(ctx, client, topic, 4, 1); err != nil {
			slog.Warn("topic creation failed, it may already exist", slog.String("topic", topic), slog.Any("error", err))
		}
	}

	return &Producer{
		client:          client,
		topic:           topic,
		transactionChan: make(chan struct{}, 1),
	}, nil
}

// Publish appends a raw proctoring event to the topic with exactly-once
// semantics, keyed by candidate assessment ID so events for one candidate
// stay ordered within a partition.
func (p *Producer) Publish(ctx domain.Context, raw domain.ProctoringEventRaw) error {
	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return fmt.Errorf("op=producer.publish: begin transaction: %w", err)
	}

	b, err := json.Marshal(toWire(raw))
	if err != nil {
		_ = p.client.EndTransaction(ctx, kgo.TryAbort)
		return fmt.Errorf("op=producer.publish: marshal: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(raw.CandidateAssessmentID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "candidate_assessment_id", Value: []byte(raw.CandidateAssessmentID)},
			{Key: "event_type", Value: []byte(raw.Type)},
		},
	}

	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		_ = p.client.EndTransaction(ctx, kgo.TryAbort)
		return fmt.Errorf("op=producer.publish: produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return fmt.Errorf("op=producer.publish: commit transaction: %w", err)
	}

	observability.EnqueueJob("proctoring_event")
	return nil
}

// EnqueueDLQ publishes a poison-pill event (one that repeatedly failed
// classification/persistence) to the dead-letter topic for manual review.
func (p *Producer) EnqueueDLQ(ctx domain.Context, candidateAssessmentID string, dlqData []byte) error {
	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	default:
		return fmt.Errorf("op=producer.enqueue_dlq: transaction channel busy")
	}

	if err := p.client.BeginTransaction(); err != nil {
		return fmt.Errorf("op=producer.enqueue_dlq: begin transaction: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(candidateAssessmentID),
		Value: dlqData,
		Topic: TopicProctoringDLQ,
	}

	result := p.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		_ = p.client.EndTransaction(ctx, kgo.TryAbort)
		return fmt.Errorf("op=producer.enqueue_dlq: produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return fmt.Errorf("op=producer.enqueue_dlq: commit transaction: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	if p.transactionChan != nil {
		select {
		case <-p.transactionChan:
		default:
			close(p.transactionChan)
		}
	}
	return nil
}
