package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"servicedesk-relay/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Outbox Repo ---

type inMemoryOutboxRepo struct {
	mu     sync.RWMutex
	events map[string]*domain.OutboxEvent
	nextID int64
}

func newInMemoryOutboxRepo() *inMemoryOutboxRepo {
	return &inMemoryOutboxRepo{events: make(map[string]*domain.OutboxEvent)}
}

func copyEvent(e *domain.OutboxEvent) *domain.OutboxEvent {
	c := *e
	return &c
}

func (r *inMemoryOutboxRepo) Insert(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[event.EventID]; exists {
		return fmt.Errorf("duplicate event_id %s", event.EventID)
	}
	r.nextID++
	event.ID = r.nextID
	r.events[event.EventID] = copyEvent(event)
	return nil
}

func (r *inMemoryOutboxRepo) GetByEventID(ctx context.Context, eventID string) (*domain.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	return copyEvent(e), nil
}

func (r *inMemoryOutboxRepo) ListPending(ctx context.Context, limit int, eventTypes []string) ([]domain.OutboxEvent, error) {
	now := time.Now().UTC()
	return r.list(limit, func(e *domain.OutboxEvent) bool {
		if e.Status != domain.EventStatusPending && e.Status != domain.EventStatusRetrying {
			return false
		}
		if e.NextRetryAt != nil && e.NextRetryAt.After(now) {
			return false
		}
		if len(eventTypes) == 0 {
			return true
		}
		for _, t := range eventTypes {
			if e.EventType == t {
				return true
			}
		}
		return false
	}), nil
}

func (r *inMemoryOutboxRepo) ListPublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	return r.list(limit, func(e *domain.OutboxEvent) bool {
		return e.Status == domain.EventStatusPublished
	}), nil
}

func (r *inMemoryOutboxRepo) list(limit int, match func(*domain.OutboxEvent) bool) []domain.OutboxEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.OutboxEvent
	for _, e := range r.events {
		if match(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (r *inMemoryOutboxRepo) ClaimProcessing(ctx context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return false, nil
	}
	if e.Status != domain.EventStatusPending && e.Status != domain.EventStatusRetrying {
		return false, nil
	}
	e.Status = domain.EventStatusProcessing
	return true, nil
}

func (r *inMemoryOutboxRepo) MarkPublished(ctx context.Context, eventID string, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || e.Status != domain.EventStatusProcessing {
		return fmt.Errorf("event %s is not PROCESSING", eventID)
	}
	e.Status = domain.EventStatusPublished
	e.ProcessedAt = &processedAt
	return nil
}

func (r *inMemoryOutboxRepo) UpdateRetryState(ctx context.Context, event *domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[event.EventID]
	if !ok {
		return fmt.Errorf("event not found")
	}
	e.Status = event.Status
	e.RetryCount = event.RetryCount
	e.NextRetryAt = event.NextRetryAt
	e.LastError = event.LastError
	return nil
}

func (r *inMemoryOutboxRepo) Requeue(ctx context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || e.Status != domain.EventStatusFailed {
		return false, nil
	}
	e.Status = domain.EventStatusPending
	e.RetryCount = 0
	e.NextRetryAt = nil
	e.LastError = nil
	return true, nil
}

func (r *inMemoryOutboxRepo) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, e := range r.events {
		if e.Status == domain.EventStatusPublished && e.ProcessedAt != nil && e.ProcessedAt.Before(cutoff) {
			delete(r.events, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- In-Memory Endpoint Repo ---

type inMemoryEndpointRepo struct {
	mu        sync.RWMutex
	endpoints map[int64]*domain.WebhookEndpoint
	nextID    int64
}

func newInMemoryEndpointRepo() *inMemoryEndpointRepo {
	return &inMemoryEndpointRepo{endpoints: make(map[int64]*domain.WebhookEndpoint)}
}

func copyEndpoint(e *domain.WebhookEndpoint) *domain.WebhookEndpoint {
	c := *e
	return &c
}

func (r *inMemoryEndpointRepo) Insert(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	endpoint.ID = r.nextID
	now := time.Now().UTC()
	endpoint.CreatedAt = now
	endpoint.UpdatedAt = now
	r.endpoints[endpoint.ID] = copyEndpoint(endpoint)
	return nil
}

func (r *inMemoryEndpointRepo) GetByID(ctx context.Context, id int64) (*domain.WebhookEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.endpoints[id]
	if !ok {
		return nil, nil
	}
	return copyEndpoint(e), nil
}

func (r *inMemoryEndpointRepo) List(ctx context.Context) ([]domain.WebhookEndpoint, error) {
	return r.listWhere(func(*domain.WebhookEndpoint) bool { return true }), nil
}

func (r *inMemoryEndpointRepo) ListActive(ctx context.Context) ([]domain.WebhookEndpoint, error) {
	return r.listWhere(func(e *domain.WebhookEndpoint) bool { return e.Active }), nil
}

func (r *inMemoryEndpointRepo) listWhere(match func(*domain.WebhookEndpoint) bool) []domain.WebhookEndpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WebhookEndpoint
	for _, e := range r.endpoints {
		if match(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *inMemoryEndpointRepo) Update(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.endpoints[endpoint.ID]; !ok {
		return fmt.Errorf("endpoint not found")
	}
	endpoint.UpdatedAt = time.Now().UTC()
	r.endpoints[endpoint.ID] = copyEndpoint(endpoint)
	return nil
}

func (r *inMemoryEndpointRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.endpoints[id]; !ok {
		return fmt.Errorf("endpoint not found")
	}
	delete(r.endpoints, id)
	return nil
}

// --- In-Memory Delivery Repo ---

type inMemoryDeliveryRepo struct {
	mu         sync.RWMutex
	deliveries []domain.WebhookDelivery
	nextID     int64
}

func newInMemoryDeliveryRepo() *inMemoryDeliveryRepo {
	return &inMemoryDeliveryRepo{}
}

func (r *inMemoryDeliveryRepo) Insert(ctx context.Context, delivery *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	delivery.ID = r.nextID
	r.deliveries = append(r.deliveries, *delivery)
	return nil
}

func (r *inMemoryDeliveryRepo) SucceededByEvent(ctx context.Context, eventIDs []string) (map[string]map[int64]bool, error) {
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]map[int64]bool)
	for _, d := range r.deliveries {
		if !d.Success || !wanted[d.EventID] {
			continue
		}
		if result[d.EventID] == nil {
			result[d.EventID] = make(map[int64]bool)
		}
		result[d.EventID][d.EndpointID] = true
	}
	return result, nil
}

func (r *inMemoryDeliveryRepo) Stats(ctx context.Context, endpointID int64, since time.Time) (*domain.EndpointStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &domain.EndpointStats{}
	var durationSum, durationCount int64
	for _, d := range r.deliveries {
		if d.EndpointID != endpointID || d.AttemptedAt.Before(since) {
			continue
		}
		stats.TotalDeliveries++
		if d.Success {
			stats.SuccessfulDeliveries++
		} else {
			stats.FailedDeliveries++
		}
		if d.DurationMs != nil {
			durationSum += *d.DurationMs
			durationCount++
		}
	}
	if stats.TotalDeliveries > 0 {
		stats.SuccessRate = float64(stats.SuccessfulDeliveries) / float64(stats.TotalDeliveries)
	}
	if durationCount > 0 {
		stats.AverageDurationMs = float64(durationSum) / float64(durationCount)
	}
	return stats, nil
}

func (r *inMemoryDeliveryRepo) DeleteAttemptedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.WebhookDelivery
	var deleted int64
	for _, d := range r.deliveries {
		if d.AttemptedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	r.deliveries = kept
	return deleted, nil
}

func (r *inMemoryDeliveryRepo) all() []domain.WebhookDelivery {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.WebhookDelivery(nil), r.deliveries...)
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
