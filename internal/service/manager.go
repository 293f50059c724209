package service

import (
	"context"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultStatsPeriodDays is the trailing window for endpoint statistics.
const defaultStatsPeriodDays = 7

// webhookManager implements ports.WebhookManager.
type webhookManager struct {
	endpointRepo ports.EndpointRepository
	deliveryRepo ports.DeliveryRepository
	sender       *webhookSender
	log          zerolog.Logger
}

// NewWebhookManager creates the endpoint registry service. Test sends go
// through the same signing and delivery path as the worker.
func NewWebhookManager(
	endpointRepo ports.EndpointRepository,
	deliveryRepo ports.DeliveryRepository,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.WebhookManager {
	return &webhookManager{
		endpointRepo: endpointRepo,
		deliveryRepo: deliveryRepo,
		sender:       newWebhookSender(deliveryRepo, sigSvc, httpClient, log),
		log:          log,
	}
}

// CreateEndpoint validates and registers a new webhook endpoint. New
// endpoints are active immediately.
func (m *webhookManager) CreateEndpoint(ctx context.Context, params ports.CreateEndpointParams) (*domain.WebhookEndpoint, error) {
	now := time.Now().UTC()
	endpoint := &domain.WebhookEndpoint{
		Name:           params.Name,
		URL:            params.URL,
		Secret:         params.Secret,
		EventTypes:     params.EventTypes,
		Active:         true,
		TimeoutSeconds: params.TimeoutSeconds,
		MaxRetries:     params.MaxRetries,
		TenantID:       params.TenantID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if endpoint.TimeoutSeconds <= 0 {
		endpoint.TimeoutSeconds = domain.DefaultEndpointTimeoutSeconds
	}
	if endpoint.MaxRetries <= 0 {
		endpoint.MaxRetries = domain.DefaultEndpointMaxRetries
	}

	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	if err := m.endpointRepo.Insert(ctx, endpoint); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	m.log.Info().
		Int64("endpoint_id", endpoint.ID).
		Str("name", endpoint.Name).
		Strs("event_types", endpoint.EventTypes).
		Msg("webhook endpoint created")
	return endpoint, nil
}

func validateEndpoint(endpoint *domain.WebhookEndpoint) error {
	if endpoint.Name == "" {
		return apperror.Validation("Endpoint name must not be empty")
	}
	if !endpoint.HasValidURL() {
		return apperror.ErrInvalidWebhookURL()
	}
	if len(endpoint.EventTypes) == 0 {
		return apperror.ErrNoEventTypes()
	}
	return nil
}

// GetEndpoint fetches one endpoint by ID.
func (m *webhookManager) GetEndpoint(ctx context.Context, id int64) (*domain.WebhookEndpoint, error) {
	endpoint, err := m.endpointRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if endpoint == nil {
		return nil, apperror.ErrEndpointNotFound(id)
	}
	return endpoint, nil
}

// ListEndpoints returns all registered endpoints.
func (m *webhookManager) ListEndpoints(ctx context.Context) ([]domain.WebhookEndpoint, error) {
	endpoints, err := m.endpointRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return endpoints, nil
}

// UpdateEndpoint validates and persists changes to an existing endpoint.
func (m *webhookManager) UpdateEndpoint(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	existing, err := m.endpointRepo.GetByID(ctx, endpoint.ID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if existing == nil {
		return apperror.ErrEndpointNotFound(endpoint.ID)
	}

	if err := m.endpointRepo.Update(ctx, endpoint); err != nil {
		return apperror.ErrDatabaseError(err)
	}

	m.log.Info().Int64("endpoint_id", endpoint.ID).Msg("webhook endpoint updated")
	return nil
}

// DeleteEndpoint removes an endpoint. Its delivery log rows remain.
func (m *webhookManager) DeleteEndpoint(ctx context.Context, id int64) error {
	existing, err := m.endpointRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if existing == nil {
		return apperror.ErrEndpointNotFound(id)
	}

	if err := m.endpointRepo.Delete(ctx, id); err != nil {
		return apperror.ErrDatabaseError(err)
	}

	m.log.Info().Int64("endpoint_id", id).Msg("webhook endpoint deleted")
	return nil
}

// TestEndpoint sends a synthetic webhook.test payload through the regular
// delivery path and returns the synchronous outcome. The attempt is recorded
// in the delivery log like any other.
func (m *webhookManager) TestEndpoint(ctx context.Context, id int64) (*ports.TestResult, error) {
	endpoint, err := m.GetEndpoint(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := wirePayload{
		EventID:       "test-" + uuid.New().String(),
		EventType:     domain.EventWebhookTest,
		AggregateType: "webhook_endpoint",
		AggregateID:   "test",
		Payload: map[string]any{
			"message": "This is a test webhook delivery",
		},
		Metadata: map[string]any{
			"test": true,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TenantID:  endpoint.TenantID,
	}

	delivery := m.sender.send(ctx, endpoint, payload)

	return &ports.TestResult{
		Success:      delivery.Success,
		StatusCode:   delivery.StatusCode,
		ResponseBody: delivery.ResponseBody,
		DurationMs:   delivery.DurationMs,
		Error:        delivery.ErrorMessage,
	}, nil
}

// Stats aggregates delivery outcomes for one endpoint over a trailing window
// of days. Zero or negative days selects the default window.
func (m *webhookManager) Stats(ctx context.Context, id int64, days int) (*domain.EndpointStats, error) {
	if days <= 0 {
		days = defaultStatsPeriodDays
	}

	if _, err := m.GetEndpoint(ctx, id); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := m.deliveryRepo.Stats(ctx, id, since)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	stats.PeriodDays = days
	return stats, nil
}
