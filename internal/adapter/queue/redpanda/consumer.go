package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/observability"
)

// Consumer wraps a Kafka/Redpanda consumer group with exactly-once
// processing semantics and a dynamically scaled worker pool, classifying
// and persisting proctoring events (C9) off the HTTP ingest path.
type Consumer struct {
	session    *kgo.GroupTransactSession
	proctoring domain.ProctoringRepository
	candidates domain.CandidateRepository

	retryManager *RetryManager

	observableClient *observability.IntegratedObservableClient
	groupID          string
	topic            string

	maxWorkers    int
	minWorkers    int
	activeWorkers int
	workerMu      sync.RWMutex
	jobQueue      chan *kgo.Record

	adaptivePoller *AdaptivePoller
	shutdown       chan struct{}

	brokers         []string
	transactionalID string
}

// NewConsumer constructs a Consumer with exactly-once semantics against
// TopicProctoringEvents.
func NewConsumer(brokers []string, groupID string, proctoring domain.ProctoringRepository, candidates domain.CandidateRepository) (*Consumer, error) {
	return NewConsumerWithTransactionalID(brokers, groupID, "assesspoint-proctoring-consumer", proctoring, candidates)
}

// NewConsumerWithTransactionalID constructs a Consumer with a custom
// transactional ID, useful for test isolation.
func NewConsumerWithTransactionalID(brokers []string, groupID, transactionalID string, proctoring domain.ProctoringRepository, candidates domain.CandidateRepository) (*Consumer, error) {
	return NewConsumerWithConfig(brokers, groupID, transactionalID, proctoring, candidates, 2, 10)
}

// NewConsumerWithConfig constructs a Consumer with a custom worker pool
// range.
func NewConsumerWithConfig(brokers []string, groupID, transactionalID string, proctoring domain.ProctoringRepository, candidates domain.CandidateRepository, minWorkers, maxWorkers int) (*Consumer, error) {
	return NewConsumerWithTopic(brokers, groupID, transactionalID, proctoring, candidates, minWorkers, maxWorkers, TopicProctoringEvents)
}

// NewConsumerWithTopic constructs a Consumer against a custom topic, used by
// tests that need topic isolation.
func NewConsumerWithTopic(brokers []string, groupID, transactionalID string, proctoring domain.ProctoringRepository, candidates domain.CandidateRepository, minWorkers, maxWorkers int, topic string) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=consumer.new: no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("op=consumer.new: missing required group ID")
	}

	observableClient := observability.NewIntegratedObservableClient(
		observability.ConnectionTypeQueue,
		observability.OperationTypePoll,
		brokers[0],
		"assesspoint-proctoring-worker",
		10*time.Second,
		1*time.Second,
		60*time.Second,
	)

	ctx := context.Background()
	tempClient, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("op=consumer.new: temp client: %w", err)
	}
	defer tempClient.Close()

	if err := createOptimizedTopicForParallelProcessing(ctx, tempClient, topic, 8, 1); err != nil {
		slog.Warn("falling back to standard topic creation", slog.String("topic", topic), slog.Any("error", err))
		if err := createTopicIfNotExists(ctx, tempClient, topic, 4, 1); err != nil {
			slog.Warn("topic creation failed, it may already exist", slog.String("topic", topic), slog.Any("error", err))
		}
	}

	kotelTracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kotelService := kotel.NewKotel(kotel.WithTracer(kotelTracer))

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.RequireStableFetchOffsets(),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10 * time.Second),
		kgo.RequestTimeoutOverhead(5 * time.Second),
		kgo.RetryTimeout(30 * time.Second),
		kgo.SessionTimeout(30 * time.Second),
		kgo.HeartbeatInterval(3 * time.Second),
		kgo.RebalanceTimeout(10 * time.Second),
		kgo.FetchMaxBytes(10 * 1024 * 1024),
		kgo.FetchMaxWait(10 * time.Second),
		kgo.FetchMinBytes(512),
		kgo.FetchMaxPartitionBytes(2 * 1024 * 1024),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(1 * time.Second),
	}

	session, err := kgo.NewGroupTransactSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("op=consumer.new: transactional session: %w", err)
	}

	return &Consumer{
		observableClient: observableClient,
		session:          session,
		proctoring:       proctoring,
		candidates:       candidates,
		groupID:          groupID,
		topic:            topic,
		minWorkers:       minWorkers,
		maxWorkers:       maxWorkers,
		jobQueue:         make(chan *kgo.Record, maxWorkers*2),
		shutdown:         make(chan struct{}),
		activeWorkers:    minWorkers,
		brokers:          brokers,
		transactionalID:  transactionalID,
		adaptivePoller:   NewAdaptivePoller(100 * time.Millisecond),
	}, nil
}

// WithRetryManager attaches a RetryManager for handling retryable
// classification/persistence failures via the retry/DLQ flow.
func (c *Consumer) WithRetryManager(rm *RetryManager) *Consumer {
	c.retryManager = rm
	return c
}

// Start begins consuming events with a dynamically scaled worker pool.
func (c *Consumer) Start(ctx context.Context) error {
	c.startWorkerPool(ctx)
	go c.messageFetcher(ctx)
	go c.workerPoolManager(ctx)
	<-ctx.Done()
	close(c.shutdown)
	return ctx.Err()
}

func (c *Consumer) startWorkerPool(ctx context.Context) {
	for i := 0; i < c.minWorkers; i++ {
		go c.worker(ctx, i)
	}
}

func (c *Consumer) workerPoolManager(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.scaleWorkers(ctx)
		}
	}
}

func (c *Consumer) scaleWorkers(ctx context.Context) {
	queueLen := len(c.jobQueue)
	activeWorkers := c.getActiveWorkers()

	if queueLen > 0 && activeWorkers < c.maxWorkers {
		toAdd := minInt(queueLen, c.maxWorkers-activeWorkers)
		for i := 0; i < toAdd; i++ {
			if c.getActiveWorkers() < c.maxWorkers {
				c.incrementActiveWorkers()
				go c.worker(ctx, c.getActiveWorkers())
			}
		}
	}

	if activeWorkers > c.minWorkers && (queueLen == 0 || activeWorkers > queueLen) {
		toRemove := activeWorkers - c.minWorkers
		if queueLen > 0 && activeWorkers > queueLen {
			toRemove = minInt(toRemove, activeWorkers-queueLen)
		}
		for i := 0; i < toRemove; i++ {
			if c.getActiveWorkers() > c.minWorkers {
				c.decrementActiveWorkers()
			}
		}
	}
}

func (c *Consumer) messageFetcher(ctx context.Context) {
	pollCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		default:
			pollCount++
			nextInterval := c.adaptivePoller.GetNextInterval()

			var fetches kgo.Fetches
			err := c.observableClient.ExecuteWithMetrics(ctx, "poll_fetches", func(fetchCtx context.Context) error {
				if !c.isConnectionHealthy() {
					if err := c.reconnectToRedpanda(); err != nil {
						return fmt.Errorf("connection unhealthy: %w", err)
					}
				}
				fetches = c.session.PollFetches(fetchCtx)
				return nil
			})

			if err != nil {
				backoff := nextInterval
				if strings.Contains(err.Error(), "context deadline exceeded") ||
					strings.Contains(err.Error(), "connection") ||
					strings.Contains(err.Error(), "timeout") {
					backoff = time.Duration(pollCount) * 2 * time.Second
					if backoff > 10*time.Second {
						backoff = 10 * time.Second
					}
				}
				c.adaptivePoller.RecordFailure()
				time.Sleep(backoff)
				continue
			}

			if errs := fetches.Errors(); len(errs) > 0 {
				for _, e := range errs {
					if e.Err != nil && (e.Err.Error() == "unable to dial" || e.Err.Error() == "context canceled") {
						return
					}
				}
				backoff := 2 * time.Second
				for _, e := range errs {
					if e.Err != nil && e.Err.Error() == "context deadline exceeded" {
						backoff = time.Duration(pollCount) * 2 * time.Second
						if backoff > 10*time.Second {
							backoff = 10 * time.Second
						}
						break
					}
				}
				c.adaptivePoller.RecordFailure()
				time.Sleep(backoff)
				continue
			}

			if fetches.NumRecords() == 0 {
				c.adaptivePoller.RecordSuccess()
				time.Sleep(nextInterval)
				continue
			}

			c.adaptivePoller.RecordSuccess()
			fetches.EachRecord(func(record *kgo.Record) {
				select {
				case c.jobQueue <- record:
				default:
					go func(rec *kgo.Record) { _ = c.processRecord(ctx, rec) }(record)
				}
			})
		}
	}
}

func (c *Consumer) worker(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case record := <-c.jobQueue:
			if record == nil {
				return
			}
			if err := c.processRecord(ctx, record); err != nil {
				slog.Error("failed to process proctoring record",
					slog.Int("worker_id", workerID), slog.Int64("offset", record.Offset), slog.Any("error", err))
			}

			activeWorkers := c.getActiveWorkers()
			queueLen := len(c.jobQueue)
			if activeWorkers > c.minWorkers && (queueLen == 0 || activeWorkers > queueLen) {
				return
			}
		}
	}
}

func (c *Consumer) getActiveWorkers() int {
	c.workerMu.RLock()
	defer c.workerMu.RUnlock()
	return c.activeWorkers
}

func (c *Consumer) incrementActiveWorkers() {
	c.workerMu.Lock()
	defer c.workerMu.Unlock()
	c.activeWorkers++
}

func (c *Consumer) decrementActiveWorkers() {
	c.workerMu.Lock()
	defer c.workerMu.Unlock()
	if c.activeWorkers > 0 {
		c.activeWorkers--
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// processRecord classifies and persists one proctoring event: derive
// severity, write the event row, then bump the candidate's embedded
// counters — matching spec.md §5's "proctoring appends do not require the
// candidate lock."
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) error {
	tracer := otel.Tracer("queue.consumer")
	ctx, span := tracer.Start(ctx, "ProcessProctoringEvent")
	defer span.End()

	err := c.handle(ctx, record.Value)
	if err != nil && c.retryManager != nil {
		candidateAssessmentID := string(record.Key)
		return c.retryManager.HandleFailure(ctx, candidateAssessmentID, record.Value, err, func(raw []byte) error {
			return c.handle(ctx, raw)
		})
	}
	return err
}

func (c *Consumer) handle(ctx context.Context, raw []byte) error {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return fmt.Errorf("op=consumer.handle: unmarshal: %w", err)
	}

	occurredAt, err := time.Parse("2006-01-02T15:04:05.000Z07:00", w.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	severity := domain.SeverityForType(w.Type)
	event := &domain.ProctoringEvent{
		CandidateAssessmentID: w.CandidateAssessmentID,
		Type:                  w.Type,
		Severity:              severity,
		Section:               w.Section,
		QuestionID:            w.QuestionID,
		Evidence:              w.Evidence,
		ScreenshotRef:         w.ScreenshotRef,
		CreatedAt:             occurredAt,
	}

	if err := c.proctoring.Create(ctx, event); err != nil {
		return fmt.Errorf("op=consumer.handle: create event: %w", err)
	}

	counters := domain.ProctoringStats{TotalEvents: 1}
	switch w.Type {
	case domain.EventTabSwitch:
		counters.TabSwitches = 1
	case domain.EventNoFace, domain.EventMultipleFaces, domain.EventFaceNotCentered:
		counters.FaceDetectionIssues = 1
	}
	if severity == domain.SeverityHigh {
		counters.HighSeverityEvents = 1
	}

	if err := c.candidates.IncrementProctoringCounters(ctx, w.CandidateAssessmentID, counters); err != nil {
		return fmt.Errorf("op=consumer.handle: increment counters: %w", err)
	}
	return nil
}

// Close shuts down the consumer session.
func (c *Consumer) Close() error {
	if c.session != nil {
		c.session.Close()
	}
	if c.shutdown != nil {
		select {
		case <-c.shutdown:
		default:
			close(c.shutdown)
		}
	}
	return nil
}

// GetHealthStatus returns the health status of the consumer.
func (c *Consumer) GetHealthStatus() map[string]interface{} {
	if c.observableClient == nil {
		return map[string]interface{}{"status": "unhealthy", "reason": "observable client not initialized"}
	}
	status := c.observableClient.GetHealthStatus()
	status["consumer_type"] = "redpanda"
	status["group_id"] = c.groupID
	status["topic"] = c.topic
	status["active_workers"] = c.getActiveWorkers()
	status["min_workers"] = c.minWorkers
	status["max_workers"] = c.maxWorkers
	return status
}

func (c *Consumer) isConnectionHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if c.session == nil {
		return false
	}
	fetches := c.session.PollFetches(ctx)
	return len(fetches.Errors()) == 0
}

func (c *Consumer) reconnectToRedpanda() error {
	if c.session != nil {
		c.session.Close()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(c.brokers...),
		kgo.TransactionalID(c.transactionalID),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.ConsumerGroup(c.groupID),
		kgo.ConsumeTopics(c.topic),
		kgo.RequireStableFetchOffsets(),
		kgo.DialTimeout(10 * time.Second),
		kgo.RequestTimeoutOverhead(5 * time.Second),
		kgo.RetryTimeout(30 * time.Second),
		kgo.SessionTimeout(20 * time.Second),
		kgo.HeartbeatInterval(3 * time.Second),
		kgo.RebalanceTimeout(10 * time.Second),
		kgo.FetchMaxBytes(10 * 1024 * 1024),
		kgo.FetchMaxWait(2 * time.Second),
		kgo.FetchMinBytes(512),
		kgo.FetchMaxPartitionBytes(2 * 1024 * 1024),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(1 * time.Second),
	}

	session, err := kgo.NewGroupTransactSession(opts...)
	if err != nil {
		return fmt.Errorf("op=consumer.reconnect: %w", err)
	}
	c.session = session
	return nil
}

// IsHealthy returns true if the consumer's connection is healthy.
func (c *Consumer) IsHealthy() bool {
	if c.observableClient == nil {
		return false
	}
	return c.observableClient.IsHealthy()
}
