package store

import (
	"context"
	"time"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// OutboxEvent is a committed event waiting for (or past) delivery
type OutboxEvent struct {
	Cursor   int64
	Event    domain.Event
	Attempts int
}

// EventQueryFilter represents filters for listing committed events
type EventQueryFilter struct {
	// Since returns events with a cursor strictly greater than this value
	Since int64
	// EventTypes restricts the result to the given types; empty means all
	EventTypes []domain.EventType
	Limit      int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Commit persists a mutation batch in one transaction. effect, when not nil,
	// runs inside the transaction after the state rows are written and before the
	// events are recorded; its error rolls the whole batch back.
	Commit(ctx context.Context, batch *domain.Batch, effect func(ctx context.Context) error) error
	// LoadState reads the full engine state
	LoadState(ctx context.Context) (*domain.State, error)

	// GetUnpublishedEvents returns up to limit undelivered events in commit order.
	// Events that already failed maxAttempts times are skipped; 0 disables the check.
	GetUnpublishedEvents(ctx context.Context, limit int, maxAttempts int) ([]OutboxEvent, error)
	// MarkEventsPublished flags the events as delivered
	MarkEventsPublished(ctx context.Context, cursors []int64, publishedAt time.Time) error
	// RecordEventFailure increments the attempt counter of an event and stores the error
	RecordEventFailure(ctx context.Context, cursor int64, message string) error
	// GetEvents lists committed events by cursor
	GetEvents(ctx context.Context, filter EventQueryFilter) ([]OutboxEvent, error)

	// SetKeyValue stores a key-value pair
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value by key; a missing key returns ""
	GetKeyValue(ctx context.Context, key string) (string, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
