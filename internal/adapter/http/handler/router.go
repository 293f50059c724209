package handler

import (
	"servicedesk-relay/internal/adapter/http/middleware"
	"servicedesk-relay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Dispatcher       ports.EventDispatcher
	Manager          ports.WebhookManager
	OutboxRepo       ports.OutboxRepository
	Transactor       ports.DBTransactor
	HealthCheckers   []ports.HealthChecker
	PendingBatchSize int
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	eventHandler := NewEventHandler(deps.Dispatcher, deps.OutboxRepo, deps.Transactor, deps.PendingBatchSize)
	events := v1.Group("/events")
	{
		events.POST("", eventHandler.Publish)
		events.GET("/pending", eventHandler.ListPending)
		events.GET("/:event_id", eventHandler.Get)
		events.POST("/:event_id/requeue", eventHandler.Requeue)
	}

	webhookHandler := NewWebhookHandler(deps.Manager)
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("", webhookHandler.Create)
		webhooks.GET("", webhookHandler.List)
		webhooks.GET("/:id", webhookHandler.Get)
		webhooks.PUT("/:id", webhookHandler.Update)
		webhooks.DELETE("/:id", webhookHandler.Delete)
		webhooks.POST("/:id/test", webhookHandler.Test)
		webhooks.GET("/:id/stats", webhookHandler.Stats)
	}

	return r
}
