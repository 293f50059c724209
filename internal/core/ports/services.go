package ports

import (
	"context"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventHandler consumes one outbox event. Handlers run in registration order;
// the first failure aborts processing of that event.
type EventHandler func(ctx context.Context, event *domain.OutboxEvent) error

// EventDispatcher writes envelopes into the outbox inside the caller's
// transaction and drives the publish/consume/retry state machine.
type EventDispatcher interface {
	// Publish validates the envelope and inserts a PENDING outbox row using
	// the caller's transaction. No committed business change exists without a
	// recorded event, and no event row survives a rolled-back change.
	Publish(ctx context.Context, tx pgx.Tx, env *domain.Envelope) (*domain.OutboxEvent, error)
	// PublishBatch applies Publish sequentially; atomicity is whatever the
	// shared transaction provides.
	PublishBatch(ctx context.Context, tx pgx.Tx, envs []*domain.Envelope) error

	ListPending(ctx context.Context, limit int, eventTypes []string) ([]domain.OutboxEvent, error)
	MarkProcessing(ctx context.Context, eventID string) (bool, error)
	MarkPublished(ctx context.Context, eventID string) error
	// MarkFailed increments retry_count and either schedules a linear-backoff
	// retry (next_retry_at = now + delay*retry_count) or moves the event to
	// the terminal FAILED state once max_retries is exhausted.
	MarkFailed(ctx context.Context, eventID string, deliveryErr string) error

	// RegisterHandler adds a process-local subscription. The table is not
	// persisted: callers must re-register after every restart before polling
	// resumes.
	RegisterHandler(eventType string, handler EventHandler)
	// Process runs all handlers registered for the event's type and reports
	// success. Failures are routed to MarkFailed and never raised to the poller.
	Process(ctx context.Context, event *domain.OutboxEvent) bool
	// ProcessPending lists due PENDING events and processes each in order.
	ProcessPending(ctx context.Context, limit int) (int, error)

	// Requeue resets a terminally FAILED event to PENDING (operator action).
	Requeue(ctx context.Context, eventID string) error
	// Purge deletes PUBLISHED events older than the retention window.
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// DeliveryWorker fans PUBLISHED events out to matching webhook endpoints.
type DeliveryWorker interface {
	// RunOnce processes one batch and returns the number of events that had
	// at least one matching endpoint.
	RunOnce(ctx context.Context) (int, error)
	// Run polls RunOnce on an interval until ctx is cancelled, holding the
	// worker lease when one is configured.
	Run(ctx context.Context, interval time.Duration) error
}

// CreateEndpointParams holds validated input for endpoint creation.
type CreateEndpointParams struct {
	Name           string
	URL            string
	Secret         *string
	EventTypes     []string
	TimeoutSeconds int
	MaxRetries     int
	TenantID       *int64
}

// TestResult is the synchronous outcome of a test delivery.
type TestResult struct {
	Success      bool    `json:"success"`
	StatusCode   *int    `json:"status_code,omitempty"`
	ResponseBody *string `json:"response_body,omitempty"`
	DurationMs   *int64  `json:"duration_ms,omitempty"`
	Error        *string `json:"error,omitempty"`
}

// WebhookManager administers the endpoint registry.
type WebhookManager interface {
	CreateEndpoint(ctx context.Context, params CreateEndpointParams) (*domain.WebhookEndpoint, error)
	GetEndpoint(ctx context.Context, id int64) (*domain.WebhookEndpoint, error)
	ListEndpoints(ctx context.Context) ([]domain.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, endpoint *domain.WebhookEndpoint) error
	DeleteEndpoint(ctx context.Context, id int64) error
	// TestEndpoint sends a synthetic webhook.test envelope through the same
	// signing and delivery path as the worker and records the delivery row.
	TestEndpoint(ctx context.Context, id int64) (*TestResult, error)
	Stats(ctx context.Context, id int64, days int) (*domain.EndpointStats, error)
}

// SignatureService handles HMAC-SHA256 signing and verification of webhook
// bodies.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
}
