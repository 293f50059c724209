package domain

import (
	"slices"
	"strings"
	"time"
)

// WebhookEndpoint is an operator-managed subscriber configuration.
// A nil TenantID means the endpoint is global: it receives matching events
// for every tenant. This is a deliberate cross-tenant broadcast capability.
type WebhookEndpoint struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	Secret         *string   `json:"-"`
	EventTypes     []string  `json:"event_types"`
	Active         bool      `json:"active"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	MaxRetries     int       `json:"max_retries"`
	TenantID       *int64    `json:"tenant_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Default endpoint configuration applied at creation.
const (
	DefaultEndpointTimeoutSeconds = 30
	DefaultEndpointMaxRetries     = 3
)

// HasValidURL reports whether the endpoint URL carries an http or https scheme.
func (e *WebhookEndpoint) HasValidURL() bool {
	return strings.HasPrefix(e.URL, "http://") || strings.HasPrefix(e.URL, "https://")
}

// Matches reports whether this endpoint should receive an event of the given
// type and tenant scope.
func (e *WebhookEndpoint) Matches(eventType string, tenantID *int64) bool {
	if !slices.Contains(e.EventTypes, eventType) {
		return false
	}
	if e.TenantID == nil {
		return true
	}
	return tenantID != nil && *e.TenantID == *tenantID
}

// Timeout returns the configured per-delivery timeout.
func (e *WebhookEndpoint) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return DefaultEndpointTimeoutSeconds * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// WebhookDelivery records one delivery attempt to one endpoint for one event.
// Rows are append-only and never updated after insert.
type WebhookDelivery struct {
	ID           int64             `json:"id"`
	EndpointID   int64             `json:"endpoint_id"`
	EventID      string            `json:"event_id"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Payload      []byte            `json:"payload"`
	StatusCode   *int              `json:"status_code,omitempty"`
	ResponseBody *string           `json:"response_body,omitempty"`
	DurationMs   *int64            `json:"duration_ms,omitempty"`
	Success      bool              `json:"success"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	AttemptedAt  time.Time         `json:"attempted_at"`
}

// EndpointStats aggregates delivery outcomes for one endpoint over a
// trailing window.
type EndpointStats struct {
	TotalDeliveries      int64   `json:"total_deliveries"`
	SuccessfulDeliveries int64   `json:"successful_deliveries"`
	FailedDeliveries     int64   `json:"failed_deliveries"`
	SuccessRate          float64 `json:"success_rate"`
	AverageDurationMs    float64 `json:"average_duration_ms"`
	PeriodDays           int     `json:"period_days"`
}
