package postgres

import (
	"context"
	"fmt"
	"time"

	"servicedesk-relay/internal/core/domain"
)

// DeliveryRepo implements ports.DeliveryRepository. The delivery log is
// append-only: rows are inserted once and never updated.
type DeliveryRepo struct {
	pool Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(pool Pool) *DeliveryRepo {
	return &DeliveryRepo{pool: pool}
}

// Insert records one delivery attempt.
func (r *DeliveryRepo) Insert(ctx context.Context, delivery *domain.WebhookDelivery) error {
	query := `INSERT INTO webhook_deliveries (endpoint_id, event_id, url, headers, payload,
		status_code, response_body, duration_ms, success, error_message, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		delivery.EndpointID, delivery.EventID, delivery.URL, delivery.Headers, delivery.Payload,
		delivery.StatusCode, delivery.ResponseBody, delivery.DurationMs,
		delivery.Success, delivery.ErrorMessage, delivery.AttemptedAt,
	).Scan(&delivery.ID)
	if err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}

// SucceededByEvent returns, per event ID, the endpoints that already have a
// successful delivery row. One query for the whole worker batch.
func (r *DeliveryRepo) SucceededByEvent(ctx context.Context, eventIDs []string) (map[string]map[int64]bool, error) {
	result := make(map[string]map[int64]bool)
	if len(eventIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT event_id, endpoint_id FROM webhook_deliveries
		 WHERE success AND event_id = ANY($1)`, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("query succeeded deliveries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var endpointID int64
		if err := rows.Scan(&eventID, &endpointID); err != nil {
			return nil, fmt.Errorf("scan succeeded delivery: %w", err)
		}
		if result[eventID] == nil {
			result[eventID] = make(map[int64]bool)
		}
		result[eventID][endpointID] = true
	}
	return result, rows.Err()
}

// Stats aggregates delivery outcomes for one endpoint since the given time.
func (r *DeliveryRepo) Stats(ctx context.Context, endpointID int64, since time.Time) (*domain.EndpointStats, error) {
	query := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE success),
		COALESCE(AVG(duration_ms) FILTER (WHERE duration_ms IS NOT NULL), 0)
		FROM webhook_deliveries
		WHERE endpoint_id = $1 AND attempted_at >= $2`

	stats := &domain.EndpointStats{}
	err := r.pool.QueryRow(ctx, query, endpointID, since).Scan(
		&stats.TotalDeliveries, &stats.SuccessfulDeliveries, &stats.AverageDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("query delivery stats: %w", err)
	}
	stats.FailedDeliveries = stats.TotalDeliveries - stats.SuccessfulDeliveries
	if stats.TotalDeliveries > 0 {
		stats.SuccessRate = float64(stats.SuccessfulDeliveries) / float64(stats.TotalDeliveries)
	}
	return stats, nil
}

// DeleteAttemptedBefore removes delivery rows older than cutoff to bound log
// growth.
func (r *DeliveryRepo) DeleteAttemptedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM webhook_deliveries WHERE attempted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge webhook deliveries: %w", err)
	}
	return tag.RowsAffected(), nil
}
