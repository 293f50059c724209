package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EndpointRepo implements ports.EndpointRepository.
type EndpointRepo struct {
	pool Pool
}

// NewEndpointRepo creates a new EndpointRepo.
func NewEndpointRepo(pool Pool) *EndpointRepo {
	return &EndpointRepo{pool: pool}
}

const endpointColumns = `id, name, url, secret, event_types, active, timeout_seconds, max_retries,
		tenant_id, created_at, updated_at`

// Insert persists a new webhook endpoint.
func (r *EndpointRepo) Insert(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	query := `INSERT INTO webhook_endpoints (name, url, secret, event_types, active, timeout_seconds,
		max_retries, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		endpoint.Name, endpoint.URL, endpoint.Secret, endpoint.EventTypes,
		endpoint.Active, endpoint.TimeoutSeconds, endpoint.MaxRetries,
		endpoint.TenantID, endpoint.CreatedAt, endpoint.UpdatedAt,
	).Scan(&endpoint.ID)
	if err != nil {
		return fmt.Errorf("insert webhook endpoint: %w", err)
	}
	return nil
}

// GetByID fetches an endpoint by its ID.
func (r *EndpointRepo) GetByID(ctx context.Context, id int64) (*domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints WHERE id = $1`

	endpoint, err := scanEndpoint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook endpoint by id: %w", err)
	}
	return endpoint, nil
}

// List returns every configured endpoint.
func (r *EndpointRepo) List(ctx context.Context) ([]domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints ORDER BY id`
	return r.queryEndpoints(ctx, query)
}

// ListActive returns endpoints eligible for delivery.
func (r *EndpointRepo) ListActive(ctx context.Context) ([]domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints WHERE active ORDER BY id`
	return r.queryEndpoints(ctx, query)
}

// Update rewrites an endpoint's configuration.
func (r *EndpointRepo) Update(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	endpoint.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`UPDATE webhook_endpoints
		 SET name = $2, url = $3, secret = $4, event_types = $5, active = $6,
		     timeout_seconds = $7, max_retries = $8, tenant_id = $9, updated_at = $10
		 WHERE id = $1`,
		endpoint.ID, endpoint.Name, endpoint.URL, endpoint.Secret, endpoint.EventTypes,
		endpoint.Active, endpoint.TimeoutSeconds, endpoint.MaxRetries,
		endpoint.TenantID, endpoint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update webhook endpoint: %w", err)
	}
	return nil
}

// Delete removes an endpoint from the registry.
func (r *EndpointRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM webhook_endpoints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook endpoint: %w", err)
	}
	return nil
}

func (r *EndpointRepo) queryEndpoints(ctx context.Context, query string, args ...any) ([]domain.WebhookEndpoint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query webhook endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.WebhookEndpoint
	for rows.Next() {
		endpoint, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook endpoint: %w", err)
		}
		endpoints = append(endpoints, *endpoint)
	}
	return endpoints, rows.Err()
}

func scanEndpoint(row pgx.Row) (*domain.WebhookEndpoint, error) {
	endpoint := &domain.WebhookEndpoint{}
	err := row.Scan(
		&endpoint.ID, &endpoint.Name, &endpoint.URL, &endpoint.Secret, &endpoint.EventTypes,
		&endpoint.Active, &endpoint.TimeoutSeconds, &endpoint.MaxRetries,
		&endpoint.TenantID, &endpoint.CreatedAt, &endpoint.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return endpoint, nil
}
