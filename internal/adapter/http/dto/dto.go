package dto

// PublishEventRequest is the request body for injecting an event over HTTP.
// The handler opens its own transaction; in-process producers publish inside
// their own business transaction instead.
type PublishEventRequest struct {
	EventType     string         `json:"event_type" binding:"required,max=100"`
	AggregateType string         `json:"aggregate_type" binding:"required,max=100"`
	AggregateID   string         `json:"aggregate_id" binding:"required,max=100"`
	Payload       map[string]any `json:"payload"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	TenantID      *int64         `json:"tenant_id,omitempty"`
}

// CreateEndpointRequest is the request body for registering a webhook endpoint.
type CreateEndpointRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=100"`
	URL            string   `json:"url" binding:"required,max=500"`
	Secret         *string  `json:"secret,omitempty"`
	EventTypes     []string `json:"event_types" binding:"required,min=1"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	MaxRetries     int      `json:"max_retries"`
	TenantID       *int64   `json:"tenant_id,omitempty"`
}

// UpdateEndpointRequest is the request body for updating a webhook endpoint.
// Nil pointer fields keep the stored value.
type UpdateEndpointRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=100"`
	URL            string   `json:"url" binding:"required,max=500"`
	Secret         *string  `json:"secret,omitempty"`
	EventTypes     []string `json:"event_types" binding:"required,min=1"`
	Active         *bool    `json:"active,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	MaxRetries     int      `json:"max_retries"`
	TenantID       *int64   `json:"tenant_id,omitempty"`
}
