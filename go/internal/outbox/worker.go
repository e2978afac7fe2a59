package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Config tunes the outbox relay worker
type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// MetricsCollector receives relay outcomes
type MetricsCollector interface {
	RecordEventPublished(eventType string, success bool)
	RecordOutboxBacklog(count int)
}

// NoOpMetricsCollector is used when metrics aren't wired
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventPublished(eventType string, success bool) {}
func (NoOpMetricsCollector) RecordOutboxBacklog(count int)                       {}

// Worker polls the outbox table and relays unsent events to the publisher.
// Delivery is at-least-once: an event published but not yet marked sent is
// retried on the next poll.
type Worker struct {
	repo      OutboxRepository
	publisher EventPublisher
	config    Config
	clock     clockwork.Clock
	metrics   MetricsCollector

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(repo OutboxRepository, publisher EventPublisher, cfg Config, clock clockwork.Clock, metrics MetricsCollector) *Worker {
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	return &Worker{
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		metrics:   metrics,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")

	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	events, err := w.repo.FetchUnsent(ctx, w.config.BatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch unsent outbox events")
		return
	}
	if len(events) == 0 {
		w.metrics.RecordOutboxBacklog(0)
		return
	}

	log.Debug().Int("count", len(events)).Msg("processing outbox events")

	var sentIDs []uuid.UUID
	for _, event := range events {
		if err := w.publishWithRetry(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish outbox event")
			w.metrics.RecordEventPublished(event.EventType, false)
			continue
		}
		w.metrics.RecordEventPublished(event.EventType, true)
		sentIDs = append(sentIDs, event.ID)
	}

	if len(sentIDs) > 0 {
		if err := w.repo.MarkSent(ctx, sentIDs); err != nil {
			log.Error().Err(err).Msg("failed to mark outbox events sent")
			return
		}
	}

	if backlog, err := w.repo.CountUnsent(ctx); err == nil {
		w.metrics.RecordOutboxBacklog(backlog)
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error
	delay := w.config.RetryDelay

	for attempt := 1; attempt <= w.config.MaxRetries; attempt++ {
		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			if attempt < w.config.MaxRetries {
				w.clock.Sleep(delay)
				delay *= 2
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", w.config.MaxRetries, lastErr)
}
