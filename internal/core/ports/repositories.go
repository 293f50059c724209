package ports

import (
	"context"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// OutboxRepository defines persistence operations for outbox events.
// Insert takes the caller's pgx.Tx so the event row commits or rolls back
// atomically with the business mutation that produced it.
type OutboxRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error
	GetByEventID(ctx context.Context, eventID string) (*domain.OutboxEvent, error)
	// ListPending returns PENDING events whose next_retry_at is null or due,
	// oldest first, optionally filtered by event type.
	ListPending(ctx context.Context, limit int, eventTypes []string) ([]domain.OutboxEvent, error)
	// ListPublished returns PUBLISHED events oldest first for webhook fan-out.
	ListPublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	// ClaimProcessing conditionally moves an event from PENDING or RETRYING to
	// PROCESSING. It returns false when the row was not in a claimable state,
	// which keeps two pollers from processing the same record twice.
	ClaimProcessing(ctx context.Context, eventID string) (bool, error)
	// MarkPublished moves a PROCESSING event to PUBLISHED and stamps processed_at.
	MarkPublished(ctx context.Context, eventID string, processedAt time.Time) error
	// UpdateRetryState persists status, retry_count, next_retry_at and
	// last_error after a failed processing attempt.
	UpdateRetryState(ctx context.Context, event *domain.OutboxEvent) error
	// Requeue resets a FAILED event to PENDING for another round of processing.
	Requeue(ctx context.Context, eventID string) (bool, error)
	// DeletePublishedBefore removes PUBLISHED events processed before cutoff.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EndpointRepository defines persistence operations for webhook endpoints.
type EndpointRepository interface {
	Insert(ctx context.Context, endpoint *domain.WebhookEndpoint) error
	GetByID(ctx context.Context, id int64) (*domain.WebhookEndpoint, error)
	List(ctx context.Context) ([]domain.WebhookEndpoint, error)
	ListActive(ctx context.Context) ([]domain.WebhookEndpoint, error)
	Update(ctx context.Context, endpoint *domain.WebhookEndpoint) error
	Delete(ctx context.Context, id int64) error
}

// DeliveryRepository defines persistence for the append-only delivery log.
type DeliveryRepository interface {
	Insert(ctx context.Context, delivery *domain.WebhookDelivery) error
	// SucceededByEvent returns, for the given event IDs, the set of endpoint
	// IDs that already have a successful delivery row. The worker uses it to
	// skip re-delivering to endpoints that have already acknowledged an event.
	SucceededByEvent(ctx context.Context, eventIDs []string) (map[string]map[int64]bool, error)
	Stats(ctx context.Context, endpointID int64, since time.Time) (*domain.EndpointStats, error)
	DeleteAttemptedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DBTransactor provides database transaction management. Business operations
// open the transaction; the dispatcher only ever joins it.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WorkerLock is a process-level lease guarding the delivery worker so a
// single instance is active at a time across replicas.
type WorkerLock interface {
	// Acquire tries to take the lease. Returns false when another holder owns it.
	Acquire(ctx context.Context) (bool, error)
	// Refresh extends the lease while the holder is still working.
	Refresh(ctx context.Context) error
	// Release gives the lease up if this instance still holds it.
	Release(ctx context.Context) error
}

// HealthChecker verifies connectivity of an external dependency.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
