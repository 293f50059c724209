package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestEnvelope_Normalize(t *testing.T) {
	env := &Envelope{
		EventType:     EventTicketCreated,
		AggregateType: "ticket",
		AggregateID:   "42",
	}
	env.Normalize()

	assert.NotEmpty(t, env.EventID)
	assert.False(t, env.OccurredAt.IsZero())

	// Provided values survive normalization.
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env2 := &Envelope{EventID: "evt-fixed", OccurredAt: at}
	env2.Normalize()
	assert.Equal(t, "evt-fixed", env2.EventID)
	assert.Equal(t, at, env2.OccurredAt)
}

func TestEventStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to EventStatus
		want     bool
	}{
		{EventStatusPending, EventStatusProcessing, true},
		{EventStatusRetrying, EventStatusProcessing, true},
		{EventStatusProcessing, EventStatusPublished, true},
		{EventStatusProcessing, EventStatusRetrying, true},
		{EventStatusProcessing, EventStatusFailed, true},
		{EventStatusPending, EventStatusPublished, false},
		{EventStatusPublished, EventStatusProcessing, false},
		{EventStatusFailed, EventStatusProcessing, false},
		{EventStatusProcessing, EventStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, EventStatusPublished.Terminal())
	assert.True(t, EventStatusFailed.Terminal())
	assert.False(t, EventStatusRetrying.Terminal())

	assert.True(t, EventStatus("PENDING").Valid())
	assert.False(t, EventStatus("UNKNOWN").Valid())
}

func TestWebhookEndpoint_Matches(t *testing.T) {
	base := WebhookEndpoint{
		EventTypes: []string{EventTicketCreated, EventTicketResolved},
	}

	global := base
	assert.True(t, global.Matches(EventTicketCreated, int64Ptr(5)))
	assert.True(t, global.Matches(EventTicketCreated, nil))
	assert.False(t, global.Matches(EventAssetCreated, int64Ptr(5)))

	scoped := base
	scoped.TenantID = int64Ptr(5)
	assert.True(t, scoped.Matches(EventTicketCreated, int64Ptr(5)))
	assert.False(t, scoped.Matches(EventTicketCreated, int64Ptr(7)))
	assert.False(t, scoped.Matches(EventTicketCreated, nil))
	assert.False(t, scoped.Matches(EventTicketResolved, int64Ptr(7)))
}

func TestWebhookEndpoint_HasValidURL(t *testing.T) {
	assert.True(t, (&WebhookEndpoint{URL: "https://example.com/hook"}).HasValidURL())
	assert.True(t, (&WebhookEndpoint{URL: "http://localhost:9000/hook"}).HasValidURL())
	assert.False(t, (&WebhookEndpoint{URL: "ftp://example.com"}).HasValidURL())
	assert.False(t, (&WebhookEndpoint{URL: "example.com/hook"}).HasValidURL())
}

func TestWebhookEndpoint_Timeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, (&WebhookEndpoint{TimeoutSeconds: 10}).Timeout())
	assert.Equal(t, DefaultEndpointTimeoutSeconds*time.Second, (&WebhookEndpoint{}).Timeout())
}

func TestEnvelopeConstructors(t *testing.T) {
	env := NewTicketCreated(42, 5, "TCK-0042", "Printer on fire")
	assert.Equal(t, EventTicketCreated, env.EventType)
	assert.Equal(t, "ticket", env.AggregateType)
	assert.Equal(t, "42", env.AggregateID)
	assert.Equal(t, int64(5), *env.TenantID)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "TCK-0042", env.Payload["numero"])

	status := NewTicketStatusChanged(42, 5, "open", "resolved")
	assert.Equal(t, EventTicketStatusChanged, status.EventType)
	assert.Equal(t, "open", status.Payload["old_status"])
	assert.Equal(t, "resolved", status.Payload["new_status"])

	asset := NewAssetCreated(7, 5, "SN-123")
	assert.Equal(t, "asset", asset.AggregateType)
	assert.Equal(t, "7", asset.AggregateID)

	item := NewInventoryItemCreated(3, 5, 11, 40)
	assert.Equal(t, EventInventoryItemCreated, item.EventType)
	assert.Equal(t, 40, item.Payload["quantity"])

	order := NewServiceOrderCreated(9, 5, "OS-0009")
	assert.Equal(t, "service_order", order.AggregateType)
	assert.Equal(t, "OS-0009", order.Payload["numero_os"])
}
