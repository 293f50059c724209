package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_events_published_total",
			Help: "Outbox events written by the dispatcher",
		},
	)

	EventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_processed_total",
			Help: "Outbox events processed by outcome",
		},
		[]string{"outcome"}, // published|retrying|failed
	)

	WebhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_webhook_deliveries_total",
			Help: "Webhook delivery attempts by outcome",
		},
		[]string{"outcome"}, // success|failure
	)

	WebhookDeliveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_webhook_delivery_duration_seconds",
			Help:    "Duration of webhook HTTP delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		EventsPublishedTotal,
		EventsProcessedTotal,
		WebhookDeliveriesTotal,
		WebhookDeliveryDuration,
	)
}
