package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/messaging"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/store"
	"github.com/lilianna-roll/issuance/internal/webhook"
)

// ErrPublisherClosed is returned by Start when the broker connection is gone
var ErrPublisherClosed = errors.New("publisher connection closed")

// ErrRelayFinished is returned by Start once a previous run has returned.
// Its worker pool is gone, so a new relay must be built.
var ErrRelayFinished = errors.New("relay cannot be restarted")

// Config holds configuration for the outbox relay
type Config struct {
	PollInterval time.Duration // Sleep between cycles when the outbox is drained
	BatchSize    int           // Events fetched per cycle
	MaxRetries   uint64        // Delivery retries of one event within a cycle
	MaxAttempts  int           // Failed cycles before an event is parked
	// RetryInitialInterval is the first backoff interval of a delivery retry
	RetryInitialInterval time.Duration
	WorkerPoolSize       int
	WorkerQueueSize      int
}

// Relay delivers committed engine events from the outbox to the broker
type Relay interface {
	// Start runs the relay loop until the context is canceled or Stop is called
	Start(ctx context.Context) error
	// Stop gracefully stops the relay
	Stop(ctx context.Context) error
	// RelayOnce delivers one batch and returns the number of delivered events
	RelayOnce(ctx context.Context) (int, error)
	// Name returns the relay name for logging
	Name() string
}

const (
	stateIdle int32 = iota
	stateRunning
	stateStopping
	stateFinished
)

type relay struct {
	config    Config
	store     store.Store
	publisher messaging.Publisher
	notifier  webhook.Notifier
	clock     adapter.Clock
	metrics   *metrics.Metrics
	pool      pond.Pool
	state     atomic.Int32
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// New creates an outbox relay. notifier and m may be nil.
func New(
	cfg Config,
	st store.Store,
	pub messaging.Publisher,
	notifier webhook.Notifier,
	clock adapter.Clock,
	m *metrics.Metrics,
) Relay {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 500 * time.Millisecond
	}

	return &relay{
		config:    cfg,
		store:     st,
		publisher: pub,
		notifier:  notifier,
		clock:     clock,
		metrics:   m,
		pool:      pond.NewPool(cfg.WorkerPoolSize, pond.WithQueueSize(cfg.WorkerQueueSize)),
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the relay name
func (r *relay) Name() string {
	return "outbox-relay"
}

// Start begins the relay loop
func (r *relay) Start(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateIdle, stateRunning) {
		if r.state.Load() == stateFinished {
			return ErrRelayFinished
		}
		return fmt.Errorf("relay already running")
	}
	defer func() {
		r.state.Store(stateFinished)
		r.pool.StopAndWait()
		close(r.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting outbox relay",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("worker_pool_size", r.config.WorkerPoolSize),
		zap.Duration("poll_interval", r.config.PollInterval),
	)

	for {
		delivered, err := r.RelayOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		// A full batch means a backlog; skip the sleep
		wait := r.config.PollInterval
		if err == nil && delivered == r.config.BatchSize {
			wait = 0
		}

		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Outbox relay stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-r.stopChan:
			logger.InfoCtx(ctx, "Outbox relay stop requested")
			return nil
		case <-r.publisher.CloseChan():
			return ErrPublisherClosed
		case <-r.clock.After(wait):
		}
	}
}

// Stop gracefully stops the relay with timeout support
func (r *relay) Stop(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateRunning, stateStopping) {
		return nil // Not running
	}

	logger.InfoCtx(ctx, "Stopping outbox relay")
	close(r.stopChan)

	select {
	case <-r.stoppedCh:
		logger.InfoCtx(ctx, "Outbox relay stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Outbox relay stop interrupted by context timeout")
		return ctx.Err()
	}
}

// RelayOnce delivers one batch of unpublished events
func (r *relay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.store.GetUnpublishedEvents(ctx, r.config.BatchSize, r.config.MaxAttempts)
	if err != nil {
		return 0, fmt.Errorf("failed to get unpublished events: %w", err)
	}
	r.metrics.SetBacklog(len(events))
	if len(events) == 0 {
		return 0, nil
	}

	logger.DebugCtx(ctx, "Relaying events", zap.Int("count", len(events)))

	var (
		mu        sync.Mutex
		delivered []int64
	)

	group := r.pool.NewGroup()
	for _, e := range events {
		group.Submit(func() {
			if err := r.deliverWithRetry(ctx, &e.Event); err != nil {
				r.metrics.EventFailed(string(e.Event.EventType))
				logger.ErrorCtx(ctx, fmt.Errorf("failed to deliver event: %w", err),
					zap.String("eventID", e.Event.EventID),
					zap.Int64("cursor", e.Cursor),
					zap.Int("attempts", e.Attempts+1),
				)
				if ierr := r.store.RecordEventFailure(ctx, e.Cursor, err.Error()); ierr != nil {
					logger.ErrorCtx(ctx, ierr, zap.Int64("cursor", e.Cursor))
				}
				return
			}

			mu.Lock()
			delivered = append(delivered, e.Cursor)
			mu.Unlock()
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	if err := r.store.MarkEventsPublished(ctx, delivered, r.clock.Now()); err != nil {
		return 0, fmt.Errorf("failed to mark events published: %w", err)
	}
	r.metrics.EventsPublished(len(delivered))

	return len(delivered), nil
}

// deliverWithRetry publishes the event and notifies the webhook with exponential backoff.
// Redelivery after a partial failure is safe: the stream deduplicates by event id.
func (r *relay) deliverWithRetry(ctx context.Context, event *domain.Event) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.RetryInitialInterval
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	operation := func() error {
		if err := r.publisher.PublishEvent(ctx, event); err != nil {
			return err
		}
		if r.notifier != nil {
			if err := r.notifier.Notify(ctx, event); err != nil {
				return err
			}
		}
		return nil
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Event delivery failed, retrying",
			zap.Error(err),
			zap.String("eventID", event.EventID),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, r.config.MaxRetries), ctx)
	return backoff.RetryNotify(operation, policy, notifyOnError)
}
