package handler

import (
	"strconv"

	"servicedesk-relay/internal/adapter/http/dto"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/pkg/apperror"
	"servicedesk-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler handles webhook endpoint administration.
type WebhookHandler struct {
	manager ports.WebhookManager
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(manager ports.WebhookManager) *WebhookHandler {
	return &WebhookHandler{manager: manager}
}

func endpointID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("endpoint id must be an integer"))
		return 0, false
	}
	return id, true
}

// Create handles POST /api/v1/webhooks.
func (h *WebhookHandler) Create(c *gin.Context) {
	var req dto.CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	endpoint, err := h.manager.CreateEndpoint(c.Request.Context(), ports.CreateEndpointParams{
		Name:           req.Name,
		URL:            req.URL,
		Secret:         req.Secret,
		EventTypes:     req.EventTypes,
		TimeoutSeconds: req.TimeoutSeconds,
		MaxRetries:     req.MaxRetries,
		TenantID:       req.TenantID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, endpoint)
}

// List handles GET /api/v1/webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	endpoints, err := h.manager.ListEndpoints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"endpoints": endpoints,
		"count":     len(endpoints),
	})
}

// Get handles GET /api/v1/webhooks/:id.
func (h *WebhookHandler) Get(c *gin.Context) {
	id, ok := endpointID(c)
	if !ok {
		return
	}

	endpoint, err := h.manager.GetEndpoint(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, endpoint)
}

// Update handles PUT /api/v1/webhooks/:id. Nil optional fields keep the
// stored value.
func (h *WebhookHandler) Update(c *gin.Context) {
	id, ok := endpointID(c)
	if !ok {
		return
	}

	var req dto.UpdateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ctx := c.Request.Context()
	endpoint, err := h.manager.GetEndpoint(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	endpoint.Name = req.Name
	endpoint.URL = req.URL
	endpoint.EventTypes = req.EventTypes
	if req.Secret != nil {
		endpoint.Secret = req.Secret
	}
	if req.Active != nil {
		endpoint.Active = *req.Active
	}
	if req.TimeoutSeconds > 0 {
		endpoint.TimeoutSeconds = req.TimeoutSeconds
	}
	if req.MaxRetries > 0 {
		endpoint.MaxRetries = req.MaxRetries
	}
	if req.TenantID != nil {
		endpoint.TenantID = req.TenantID
	}

	if err := h.manager.UpdateEndpoint(ctx, endpoint); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, endpoint)
}

// Delete handles DELETE /api/v1/webhooks/:id.
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, ok := endpointID(c)
	if !ok {
		return
	}

	if err := h.manager.DeleteEndpoint(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Test handles POST /api/v1/webhooks/:id/test — synchronous test delivery.
func (h *WebhookHandler) Test(c *gin.Context) {
	id, ok := endpointID(c)
	if !ok {
		return
	}

	result, err := h.manager.TestEndpoint(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Stats handles GET /api/v1/webhooks/:id/stats?days=N.
func (h *WebhookHandler) Stats(c *gin.Context) {
	id, ok := endpointID(c)
	if !ok {
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, apperror.Validation("days must be a non-negative integer"))
			return
		}
		days = parsed
	}

	stats, err := h.manager.Stats(c.Request.Context(), id, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stats)
}
