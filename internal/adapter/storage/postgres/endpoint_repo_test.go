package postgres

import (
	"context"
	"testing"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint() *domain.WebhookEndpoint {
	return &domain.WebhookEndpoint{
		Name:           "ticket feed",
		URL:            "https://hooks.example.test/tickets",
		Secret:         strPtr("s3cr3t"),
		EventTypes:     []string{domain.EventTicketCreated, domain.EventTicketStatusChanged},
		Active:         true,
		TimeoutSeconds: domain.DefaultEndpointTimeoutSeconds,
		MaxRetries:     domain.DefaultEndpointMaxRetries,
		TenantID:       int64Ptr(1),
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func endpointColumnNames() []string {
	return []string{"id", "name", "url", "secret", "event_types", "active", "timeout_seconds",
		"max_retries", "tenant_id", "created_at", "updated_at"}
}

func endpointRow(e *domain.WebhookEndpoint) *pgxmock.Rows {
	return pgxmock.NewRows(endpointColumnNames()).AddRow(
		e.ID, e.Name, e.URL, e.Secret, e.EventTypes, e.Active,
		e.TimeoutSeconds, e.MaxRetries, e.TenantID, e.CreatedAt, e.UpdatedAt,
	)
}

func TestEndpointRepo_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)
	endpoint := newTestEndpoint()

	mock.ExpectQuery("INSERT INTO webhook_endpoints").
		WithArgs(endpoint.Name, endpoint.URL, endpoint.Secret, endpoint.EventTypes,
			endpoint.Active, endpoint.TimeoutSeconds, endpoint.MaxRetries,
			endpoint.TenantID, endpoint.CreatedAt, endpoint.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

	err = repo.Insert(context.Background(), endpoint)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), endpoint.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)
	endpoint := newTestEndpoint()
	endpoint.ID = 5

	mock.ExpectQuery("SELECT .+ FROM webhook_endpoints WHERE id").
		WithArgs(endpoint.ID).
		WillReturnRows(endpointRow(endpoint))

	result, err := repo.GetByID(context.Background(), endpoint.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, endpoint.URL, result.URL)
	assert.Equal(t, endpoint.EventTypes, result.EventTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM webhook_endpoints WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(endpointColumnNames()))

	result, err := repo.GetByID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepo_ListActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)
	endpoint := newTestEndpoint()
	endpoint.ID = 1

	mock.ExpectQuery("SELECT .+ FROM webhook_endpoints WHERE active").
		WillReturnRows(endpointRow(endpoint))

	endpoints, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.True(t, endpoints[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)
	endpoint := newTestEndpoint()
	endpoint.ID = 5
	endpoint.Active = false

	mock.ExpectExec("UPDATE webhook_endpoints").
		WithArgs(endpoint.ID, endpoint.Name, endpoint.URL, endpoint.Secret, endpoint.EventTypes,
			endpoint.Active, endpoint.TimeoutSeconds, endpoint.MaxRetries,
			endpoint.TenantID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), endpoint)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEndpointRepo(mock)

	mock.ExpectExec("DELETE FROM webhook_endpoints").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
