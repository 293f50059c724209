package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/internal/metrics"
	"servicedesk-relay/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// defaultRetryDelay is the base delay for linear retry backoff.
const defaultRetryDelay = 5 * time.Minute

// eventDispatcher implements ports.EventDispatcher.
type eventDispatcher struct {
	outboxRepo ports.OutboxRepository
	retryDelay time.Duration

	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler

	log zerolog.Logger
}

// NewEventDispatcher creates the outbox dispatcher. retryDelay is the base of
// the linear backoff schedule; zero selects the default.
func NewEventDispatcher(outboxRepo ports.OutboxRepository, retryDelay time.Duration, log zerolog.Logger) ports.EventDispatcher {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &eventDispatcher{
		outboxRepo: outboxRepo,
		retryDelay: retryDelay,
		handlers:   make(map[string][]ports.EventHandler),
		log:        log,
	}
}

// Publish validates the envelope and inserts a PENDING outbox row in the
// caller's transaction.
func (d *eventDispatcher) Publish(ctx context.Context, tx pgx.Tx, env *domain.Envelope) (*domain.OutboxEvent, error) {
	if err := validateEnvelope(env); err != nil {
		return nil, err
	}
	env.Normalize()

	event := &domain.OutboxEvent{
		EventID:       env.EventID,
		EventType:     env.EventType,
		AggregateType: env.AggregateType,
		AggregateID:   env.AggregateID,
		Payload:       env.Payload,
		Metadata:      env.Metadata,
		Status:        domain.EventStatusPending,
		RetryCount:    0,
		MaxRetries:    domain.DefaultMaxRetries,
		TenantID:      env.TenantID,
		CreatedAt:     env.OccurredAt,
	}

	if err := d.outboxRepo.Insert(ctx, tx, event); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	metrics.EventsPublishedTotal.Inc()
	d.log.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		Msg("event published to outbox")

	return event, nil
}

// PublishBatch publishes envelopes sequentially in the shared transaction.
// The first failure aborts the batch; the caller decides whether to roll back.
func (d *eventDispatcher) PublishBatch(ctx context.Context, tx pgx.Tx, envs []*domain.Envelope) error {
	for _, env := range envs {
		if _, err := d.Publish(ctx, tx, env); err != nil {
			return err
		}
	}
	return nil
}

func validateEnvelope(env *domain.Envelope) error {
	var missing []string
	if env.EventType == "" {
		missing = append(missing, "event_type")
	}
	if env.AggregateType == "" {
		missing = append(missing, "aggregate_type")
	}
	if env.AggregateID == "" {
		missing = append(missing, "aggregate_id")
	}
	if len(missing) > 0 {
		return apperror.ErrInvalidEnvelope("missing " + strings.Join(missing, ", "))
	}
	return nil
}

// ListPending returns due PENDING and RETRYING events, oldest first.
func (d *eventDispatcher) ListPending(ctx context.Context, limit int, eventTypes []string) ([]domain.OutboxEvent, error) {
	events, err := d.outboxRepo.ListPending(ctx, limit, eventTypes)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return events, nil
}

// MarkProcessing claims the event for processing. Returns false when the row
// was not in a claimable state.
func (d *eventDispatcher) MarkProcessing(ctx context.Context, eventID string) (bool, error) {
	claimed, err := d.outboxRepo.ClaimProcessing(ctx, eventID)
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	return claimed, nil
}

// MarkPublished moves a PROCESSING event to PUBLISHED.
func (d *eventDispatcher) MarkPublished(ctx context.Context, eventID string) error {
	if err := d.outboxRepo.MarkPublished(ctx, eventID, time.Now().UTC()); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	metrics.EventsProcessedTotal.WithLabelValues("published").Inc()
	return nil
}

// MarkFailed records a failed processing attempt: either a linear-backoff
// retry or, once max_retries is exhausted, the terminal FAILED state.
func (d *eventDispatcher) MarkFailed(ctx context.Context, eventID string, deliveryErr string) error {
	event, err := d.outboxRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if event == nil {
		return apperror.ErrEventNotFound(eventID)
	}

	event.RetryCount++
	event.LastError = &deliveryErr

	if event.RetryCount >= event.MaxRetries {
		event.Status = domain.EventStatusFailed
		event.NextRetryAt = nil
		metrics.EventsProcessedTotal.WithLabelValues("failed").Inc()
		d.log.Error().
			Str("event_id", eventID).
			Int("retry_count", event.RetryCount).
			Str("error", deliveryErr).
			Msg("event failed permanently")
	} else {
		next := time.Now().UTC().Add(d.retryDelay * time.Duration(event.RetryCount))
		event.Status = domain.EventStatusRetrying
		event.NextRetryAt = &next
		metrics.EventsProcessedTotal.WithLabelValues("retrying").Inc()
		d.log.Warn().
			Str("event_id", eventID).
			Int("retry_count", event.RetryCount).
			Time("next_retry_at", next).
			Str("error", deliveryErr).
			Msg("event scheduled for retry")
	}

	if err := d.outboxRepo.UpdateRetryState(ctx, event); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	return nil
}

// RegisterHandler adds a process-local subscription for eventType.
func (d *eventDispatcher) RegisterHandler(eventType string, handler ports.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.log.Debug().
		Str("event_type", eventType).
		Int("handlers", len(d.handlers[eventType])).
		Msg("event handler registered")
}

func (d *eventDispatcher) handlersFor(eventType string) []ports.EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[eventType]
}

// Process claims the event, runs its handlers in registration order and marks
// the outcome. Handler failures are routed to MarkFailed and never escape.
func (d *eventDispatcher) Process(ctx context.Context, event *domain.OutboxEvent) bool {
	claimed, err := d.MarkProcessing(ctx, event.EventID)
	if err != nil {
		d.log.Error().Err(err).Str("event_id", event.EventID).Msg("claiming event failed")
		return false
	}
	if !claimed {
		d.log.Debug().Str("event_id", event.EventID).Msg("event not claimable, skipping")
		return false
	}

	handlers := d.handlersFor(event.EventType)
	if len(handlers) == 0 {
		d.log.Warn().
			Str("event_id", event.EventID).
			Str("event_type", event.EventType).
			Msg("no handlers registered for event type")
	}

	for _, handler := range handlers {
		if err := invokeHandler(ctx, handler, event); err != nil {
			if failErr := d.MarkFailed(ctx, event.EventID, err.Error()); failErr != nil {
				d.log.Error().Err(failErr).Str("event_id", event.EventID).Msg("recording event failure failed")
			}
			return false
		}
	}

	if err := d.MarkPublished(ctx, event.EventID); err != nil {
		d.log.Error().Err(err).Str("event_id", event.EventID).Msg("marking event published failed")
		return false
	}
	return true
}

// invokeHandler converts handler panics into errors so one bad subscriber
// cannot take the poller down.
func invokeHandler(ctx context.Context, handler ports.EventHandler, event *domain.OutboxEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

// ProcessPending lists due events and processes each in order. Returns the
// number successfully published.
func (d *eventDispatcher) ProcessPending(ctx context.Context, limit int) (int, error) {
	events, err := d.ListPending(ctx, limit, nil)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range events {
		if d.Process(ctx, &events[i]) {
			processed++
		}
	}

	if len(events) > 0 {
		d.log.Info().
			Int("listed", len(events)).
			Int("published", processed).
			Msg("pending events processed")
	}
	return processed, nil
}

// Requeue resets a terminally FAILED event to PENDING.
func (d *eventDispatcher) Requeue(ctx context.Context, eventID string) error {
	ok, err := d.outboxRepo.Requeue(ctx, eventID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if ok {
		d.log.Info().Str("event_id", eventID).Msg("failed event requeued")
		return nil
	}

	event, err := d.outboxRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if event == nil {
		return apperror.ErrEventNotFound(eventID)
	}
	return apperror.ErrEventNotRequeueable(eventID)
}

// Purge deletes PUBLISHED events processed before the retention window.
func (d *eventDispatcher) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	deleted, err := d.outboxRepo.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		return 0, apperror.ErrDatabaseError(err)
	}
	if deleted > 0 {
		d.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("published events purged")
	}
	return deleted, nil
}
