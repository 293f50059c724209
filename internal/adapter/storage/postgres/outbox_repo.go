package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// OutboxRepo implements ports.OutboxRepository.
type OutboxRepo struct {
	pool Pool
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(pool Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

const outboxColumns = `id, event_id, event_type, aggregate_type, aggregate_id, payload, metadata,
		status, retry_count, max_retries, tenant_id, created_at, processed_at, next_retry_at, last_error`

// Insert writes a new PENDING outbox row inside the caller's transaction so
// the event commits or rolls back with the business mutation.
func (r *OutboxRepo) Insert(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error {
	query := `INSERT INTO outbox_events (event_id, event_type, aggregate_type, aggregate_id, payload, metadata,
		status, retry_count, max_retries, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		event.EventID, event.EventType, event.AggregateType, event.AggregateID,
		event.Payload, event.Metadata, string(event.Status),
		event.RetryCount, event.MaxRetries, event.TenantID, event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// GetByEventID fetches one outbox event by its globally unique event ID.
func (r *OutboxRepo) GetByEventID(ctx context.Context, eventID string) (*domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + ` FROM outbox_events WHERE event_id = $1`

	event, err := scanOutboxEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbox event by event_id: %w", err)
	}
	return event, nil
}

// ListPending returns due PENDING and RETRYING events oldest first.
func (r *OutboxRepo) ListPending(ctx context.Context, limit int, eventTypes []string) ([]domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + ` FROM outbox_events
		WHERE status IN ('PENDING', 'RETRYING')
		AND (next_retry_at IS NULL OR next_retry_at <= now())`
	args := []any{}
	if len(eventTypes) > 0 {
		query += ` AND event_type = ANY($1)`
		args = append(args, eventTypes)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return r.queryEvents(ctx, query, args...)
}

// ListPublished returns PUBLISHED events oldest first for webhook fan-out.
func (r *OutboxRepo) ListPublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + ` FROM outbox_events
		WHERE status = 'PUBLISHED' ORDER BY created_at ASC LIMIT $1`

	return r.queryEvents(ctx, query, limit)
}

// ClaimProcessing conditionally claims an event for processing. Returns false
// when the row is not in a claimable state, so concurrent pollers cannot
// process the same record twice.
func (r *OutboxRepo) ClaimProcessing(ctx context.Context, eventID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE outbox_events SET status = 'PROCESSING'
		 WHERE event_id = $1 AND status IN ('PENDING', 'RETRYING')`, eventID)
	if err != nil {
		return false, fmt.Errorf("claim outbox event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPublished moves a PROCESSING event to PUBLISHED.
func (r *OutboxRepo) MarkPublished(ctx context.Context, eventID string, processedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE outbox_events SET status = 'PUBLISHED', processed_at = $2
		 WHERE event_id = $1 AND status = 'PROCESSING'`, eventID, processedAt)
	if err != nil {
		return fmt.Errorf("mark outbox event published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s is not PROCESSING", eventID)
	}
	return nil
}

// UpdateRetryState persists the retry bookkeeping computed by the dispatcher.
func (r *OutboxRepo) UpdateRetryState(ctx context.Context, event *domain.OutboxEvent) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE outbox_events SET status = $2, retry_count = $3, next_retry_at = $4, last_error = $5
		 WHERE event_id = $1`,
		event.EventID, string(event.Status), event.RetryCount, event.NextRetryAt, event.LastError)
	if err != nil {
		return fmt.Errorf("update outbox retry state: %w", err)
	}
	return nil
}

// Requeue resets a FAILED event for another round of processing.
func (r *OutboxRepo) Requeue(ctx context.Context, eventID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE outbox_events
		 SET status = 'PENDING', retry_count = 0, next_retry_at = NULL, last_error = NULL
		 WHERE event_id = $1 AND status = 'FAILED'`, eventID)
	if err != nil {
		return false, fmt.Errorf("requeue outbox event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeletePublishedBefore removes PUBLISHED events processed before cutoff.
func (r *OutboxRepo) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM outbox_events WHERE status = 'PUBLISHED' AND processed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge outbox events: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepo) queryEvents(ctx context.Context, query string, args ...any) ([]domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		event, err := scanOutboxEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func scanOutboxEvent(row pgx.Row) (*domain.OutboxEvent, error) {
	event := &domain.OutboxEvent{}
	var status string
	err := row.Scan(
		&event.ID, &event.EventID, &event.EventType, &event.AggregateType, &event.AggregateID,
		&event.Payload, &event.Metadata, &status, &event.RetryCount, &event.MaxRetries,
		&event.TenantID, &event.CreatedAt, &event.ProcessedAt, &event.NextRetryAt, &event.LastError,
	)
	if err != nil {
		return nil, err
	}
	event.Status = domain.EventStatus(status)
	return event, nil
}
