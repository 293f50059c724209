package handler

import (
	"strings"

	"servicedesk-relay/internal/adapter/http/dto"
	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/pkg/apperror"
	"servicedesk-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// EventHandler exposes the outbox to operators: injection, inspection and
// requeue of failed events.
type EventHandler struct {
	dispatcher   ports.EventDispatcher
	outboxRepo   ports.OutboxRepository
	transactor   ports.DBTransactor
	pendingLimit int
}

// NewEventHandler creates a new event handler.
func NewEventHandler(dispatcher ports.EventDispatcher, outboxRepo ports.OutboxRepository, transactor ports.DBTransactor, pendingLimit int) *EventHandler {
	if pendingLimit <= 0 {
		pendingLimit = 100
	}
	return &EventHandler{
		dispatcher:   dispatcher,
		outboxRepo:   outboxRepo,
		transactor:   transactor,
		pendingLimit: pendingLimit,
	}
}

// Publish handles POST /api/v1/events — the HTTP producer path. The event row
// commits in a transaction opened here.
func (h *EventHandler) Publish(c *gin.Context) {
	var req dto.PublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ctx := c.Request.Context()
	tx, err := h.transactor.Begin(ctx)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	env := &domain.Envelope{
		EventType:     req.EventType,
		AggregateType: req.AggregateType,
		AggregateID:   req.AggregateID,
		Payload:       req.Payload,
		Metadata:      req.Metadata,
		TenantID:      req.TenantID,
	}

	event, err := h.dispatcher.Publish(ctx, tx, env)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}

	response.Created(c, event)
}

// ListPending handles GET /api/v1/events/pending. The optional "types" query
// parameter is a comma-separated event type filter.
func (h *EventHandler) ListPending(c *gin.Context) {
	var eventTypes []string
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				eventTypes = append(eventTypes, t)
			}
		}
	}

	events, err := h.dispatcher.ListPending(c.Request.Context(), h.pendingLimit, eventTypes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// Get handles GET /api/v1/events/:event_id.
func (h *EventHandler) Get(c *gin.Context) {
	eventID := c.Param("event_id")

	event, err := h.outboxRepo.GetByEventID(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}
	if event == nil {
		response.Error(c, apperror.ErrEventNotFound(eventID))
		return
	}

	response.OK(c, event)
}

// Requeue handles POST /api/v1/events/:event_id/requeue — resets a FAILED
// event to PENDING.
func (h *EventHandler) Requeue(c *gin.Context) {
	eventID := c.Param("event_id")

	if err := h.dispatcher.Requeue(c.Request.Context(), eventID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"event_id": eventID,
		"status":   string(domain.EventStatusPending),
	})
}
