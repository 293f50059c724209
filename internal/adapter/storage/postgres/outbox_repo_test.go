package postgres

import (
	"context"
	"testing"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

func newTestOutboxEvent() *domain.OutboxEvent {
	return &domain.OutboxEvent{
		EventID:       uuid.New().String(),
		EventType:     domain.EventTicketCreated,
		AggregateType: "ticket",
		AggregateID:   "42",
		Payload:       map[string]any{"numero": "TKT-1"},
		Metadata:      map[string]any{},
		Status:        domain.EventStatusPending,
		RetryCount:    0,
		MaxRetries:    domain.DefaultMaxRetries,
		TenantID:      int64Ptr(1),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func outboxColumnNames() []string {
	return []string{"id", "event_id", "event_type", "aggregate_type", "aggregate_id", "payload", "metadata",
		"status", "retry_count", "max_retries", "tenant_id", "created_at", "processed_at", "next_retry_at", "last_error"}
}

func outboxRow(e *domain.OutboxEvent) *pgxmock.Rows {
	return pgxmock.NewRows(outboxColumnNames()).AddRow(
		e.ID, e.EventID, e.EventType, e.AggregateType, e.AggregateID, e.Payload, e.Metadata,
		string(e.Status), e.RetryCount, e.MaxRetries, e.TenantID, e.CreatedAt,
		e.ProcessedAt, e.NextRetryAt, e.LastError,
	)
}

func TestOutboxRepo_Insert_JoinsCallerTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	event := newTestOutboxEvent()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO outbox_events").
		WithArgs(event.EventID, event.EventType, event.AggregateType, event.AggregateID,
			event.Payload, event.Metadata, string(event.Status),
			event.RetryCount, event.MaxRetries, event.TenantID, event.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectRollback()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Insert(context.Background(), tx, event)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), event.ID)

	// The row must die with the caller's transaction.
	require.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_GetByEventID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	event := newTestOutboxEvent()
	event.ID = 3

	mock.ExpectQuery("SELECT .+ FROM outbox_events WHERE event_id").
		WithArgs(event.EventID).
		WillReturnRows(outboxRow(event))

	result, err := repo.GetByEventID(context.Background(), event.EventID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, event.EventID, result.EventID)
	assert.Equal(t, domain.EventStatusPending, result.Status)
	assert.Equal(t, int64(1), *result.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_GetByEventID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM outbox_events WHERE event_id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(outboxColumnNames()))

	result, err := repo.GetByEventID(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_ListPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	first := newTestOutboxEvent()
	second := newTestOutboxEvent()

	mock.ExpectQuery(`SELECT .+ FROM outbox_events\s+WHERE status IN \('PENDING', 'RETRYING'\)`).
		WithArgs(10).
		WillReturnRows(outboxRow(first).AddRow(
			second.ID, second.EventID, second.EventType, second.AggregateType, second.AggregateID,
			second.Payload, second.Metadata, string(second.Status), second.RetryCount,
			second.MaxRetries, second.TenantID, second.CreatedAt,
			second.ProcessedAt, second.NextRetryAt, second.LastError,
		))

	events, err := repo.ListPending(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_ListPending_FilteredByType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	types := []string{domain.EventTicketCreated}

	mock.ExpectQuery(`SELECT .+ FROM outbox_events .+ AND event_type = ANY`).
		WithArgs(types, 5).
		WillReturnRows(pgxmock.NewRows(outboxColumnNames()))

	events, err := repo.ListPending(context.Background(), 5, types)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_ClaimProcessing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)

	mock.ExpectExec(`UPDATE outbox_events SET status = 'PROCESSING'`).
		WithArgs("evt-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	claimed, err := repo.ClaimProcessing(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_ClaimProcessing_AlreadyClaimed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)

	mock.ExpectExec(`UPDATE outbox_events SET status = 'PROCESSING'`).
		WithArgs("evt-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	claimed, err := repo.ClaimProcessing(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_MarkPublished(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	processedAt := time.Now().UTC()

	mock.ExpectExec(`UPDATE outbox_events SET status = 'PUBLISHED'`).
		WithArgs("evt-1", processedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.MarkPublished(context.Background(), "evt-1", processedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_MarkPublished_NotProcessing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)

	mock.ExpectExec(`UPDATE outbox_events SET status = 'PUBLISHED'`).
		WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkPublished(context.Background(), "evt-1", time.Now().UTC())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_UpdateRetryState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	event := newTestOutboxEvent()
	event.Status = domain.EventStatusRetrying
	event.RetryCount = 1
	retryAt := time.Now().UTC().Add(5 * time.Minute)
	event.NextRetryAt = &retryAt
	event.LastError = strPtr("handler blew up")

	mock.ExpectExec(`UPDATE outbox_events SET status = \$2`).
		WithArgs(event.EventID, string(event.Status), event.RetryCount, event.NextRetryAt, event.LastError).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateRetryState(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_Requeue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)

	mock.ExpectExec(`UPDATE outbox_events\s+SET status = 'PENDING'`).
		WithArgs("evt-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	requeued, err := repo.Requeue(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, requeued)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_DeletePublishedBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOutboxRepo(mock)
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	mock.ExpectExec(`DELETE FROM outbox_events WHERE status = 'PUBLISHED'`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	deleted, err := repo.DeletePublishedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
