package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the outbox processing state of an event.
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusRetrying   EventStatus = "RETRYING"
	EventStatusFailed     EventStatus = "FAILED"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusPending, EventStatusProcessing, EventStatusPublished,
		EventStatusRetrying, EventStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s EventStatus) Terminal() bool {
	return s == EventStatusPublished || s == EventStatusFailed
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
// Allowed: PENDING→PROCESSING, RETRYING→PROCESSING,
// PROCESSING→{PUBLISHED, RETRYING, FAILED}.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusPending, EventStatusRetrying:
		return next == EventStatusProcessing
	case EventStatusProcessing:
		return next == EventStatusPublished || next == EventStatusRetrying || next == EventStatusFailed
	}
	return false
}

// Domain event types, dot-namespaced by aggregate.
const (
	// Ticket events
	EventTicketCreated       = "ticket.created"
	EventTicketUpdated       = "ticket.updated"
	EventTicketStatusChanged = "ticket.status.changed"
	EventTicketAssigned      = "ticket.assigned"
	EventTicketResolved      = "ticket.resolved"
	EventTicketClosed        = "ticket.closed"
	EventTicketSLABreached   = "ticket.sla.breached"

	// Asset events
	EventAssetCreated       = "asset.created"
	EventAssetUpdated       = "asset.updated"
	EventAssetStatusChanged = "asset.status.changed"
	EventAssetAssigned      = "asset.assigned"

	// Inventory events
	EventInventoryItemCreated = "inventory.item.created"
	EventInventoryItemUpdated = "inventory.item.updated"
	EventInventoryItemDeleted = "inventory.item.deleted"

	// Service order events
	EventServiceOrderCreated       = "service_order.created"
	EventServiceOrderUpdated       = "service_order.updated"
	EventServiceOrderStatusChanged = "service_order.status.changed"
	EventServiceOrderCompleted     = "service_order.completed"

	// User and company events
	EventUserCreated    = "user.created"
	EventUserUpdated    = "user.updated"
	EventCompanyCreated = "company.created"
	EventCompanyUpdated = "company.updated"

	// Synthetic event used by endpoint testing
	EventWebhookTest = "webhook.test"
)

// Envelope describes one domain occurrence. Producers construct an Envelope
// and hand it to the dispatcher inside their own database transaction.
type Envelope struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	TenantID      *int64         `json:"tenant_id,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// Normalize fills in a generated event ID and occurrence time when absent.
func (e *Envelope) Normalize() {
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
}

// OutboxEvent is the persisted representation of an Envelope plus its
// processing state. Rows are written in the same transaction as the business
// mutation that produced them and relayed asynchronously.
type OutboxEvent struct {
	ID            int64          `json:"id"`
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Status        EventStatus    `json:"status"`
	RetryCount    int            `json:"retry_count"`
	MaxRetries    int            `json:"max_retries"`
	TenantID      *int64         `json:"tenant_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	ProcessedAt   *time.Time     `json:"processed_at,omitempty"`
	NextRetryAt   *time.Time     `json:"next_retry_at,omitempty"`
	LastError     *string        `json:"last_error,omitempty"`
}

// DefaultMaxRetries is the retry budget assigned to new outbox rows.
const DefaultMaxRetries = 3

// --- Convenience constructors for common producer events ---

func newEnvelope(eventType, aggregateType, aggregateID string, tenantID int64, payload map[string]any) *Envelope {
	tid := tenantID
	env := &Envelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
		TenantID:      &tid,
		OccurredAt:    time.Now().UTC(),
	}
	return env
}

// NewTicketCreated builds the envelope fired when a ticket is opened.
func NewTicketCreated(ticketID int64, tenantID int64, number, title string) *Envelope {
	return newEnvelope(EventTicketCreated, "ticket", formatID(ticketID), tenantID, map[string]any{
		"ticket_id": ticketID,
		"numero":    number,
		"titulo":    title,
	})
}

// NewTicketStatusChanged builds the envelope fired on a ticket status change.
func NewTicketStatusChanged(ticketID int64, tenantID int64, oldStatus, newStatus string) *Envelope {
	return newEnvelope(EventTicketStatusChanged, "ticket", formatID(ticketID), tenantID, map[string]any{
		"ticket_id":  ticketID,
		"old_status": oldStatus,
		"new_status": newStatus,
	})
}

// NewAssetCreated builds the envelope fired when an asset is registered.
func NewAssetCreated(assetID int64, tenantID int64, serial string) *Envelope {
	return newEnvelope(EventAssetCreated, "asset", formatID(assetID), tenantID, map[string]any{
		"asset_id":    assetID,
		"serial_text": serial,
	})
}

// NewInventoryItemCreated builds the envelope fired when stock is created.
func NewInventoryItemCreated(itemID, tenantID, catalogID int64, quantity int) *Envelope {
	return newEnvelope(EventInventoryItemCreated, "inventory_item", formatID(itemID), tenantID, map[string]any{
		"item_id":    itemID,
		"catalog_id": catalogID,
		"quantity":   quantity,
	})
}

// NewServiceOrderCreated builds the envelope fired when a service order is opened.
func NewServiceOrderCreated(orderID int64, tenantID int64, orderNumber string) *Envelope {
	return newEnvelope(EventServiceOrderCreated, "service_order", formatID(orderID), tenantID, map[string]any{
		"service_order_id": orderID,
		"numero_os":        orderNumber,
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
