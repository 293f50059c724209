package service

import (
	"context"
	"sync"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"

	"github.com/rs/zerolog"
)

// retryBackoffStep spaces in-run delivery attempts to the same endpoint.
const retryBackoffStep = 250 * time.Millisecond

// WorkerConfig tunes one delivery worker instance.
type WorkerConfig struct {
	// BatchSize bounds how many PUBLISHED events one RunOnce pass reads.
	BatchSize int
	// MaxConcurrentDeliveries caps simultaneous in-flight HTTP deliveries.
	MaxConcurrentDeliveries int
	// EventDelay is the pause between events within a batch.
	EventDelay time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxConcurrentDeliveries <= 0 {
		c.MaxConcurrentDeliveries = 10
	}
	return c
}

// deliveryWorker implements ports.DeliveryWorker. It fans PUBLISHED outbox
// events out to all matching active endpoints, skipping endpoints that already
// acknowledged an event in a previous run.
type deliveryWorker struct {
	outboxRepo   ports.OutboxRepository
	endpointRepo ports.EndpointRepository
	deliveryRepo ports.DeliveryRepository
	sender       *webhookSender
	lock         ports.WorkerLock // nil disables leasing
	cfg          WorkerConfig
	log          zerolog.Logger
}

// NewDeliveryWorker creates the webhook delivery worker. lock may be nil when
// single-instance deployment makes leasing unnecessary.
func NewDeliveryWorker(
	outboxRepo ports.OutboxRepository,
	endpointRepo ports.EndpointRepository,
	deliveryRepo ports.DeliveryRepository,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	lock ports.WorkerLock,
	cfg WorkerConfig,
	log zerolog.Logger,
) ports.DeliveryWorker {
	return &deliveryWorker{
		outboxRepo:   outboxRepo,
		endpointRepo: endpointRepo,
		deliveryRepo: deliveryRepo,
		sender:       newWebhookSender(deliveryRepo, sigSvc, httpClient, log),
		lock:         lock,
		cfg:          cfg.withDefaults(),
		log:          log,
	}
}

// RunOnce processes one batch of PUBLISHED events. Returns the number of
// events that had at least one endpoint delivered to.
func (w *deliveryWorker) RunOnce(ctx context.Context) (int, error) {
	events, err := w.outboxRepo.ListPublished(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	endpoints, err := w.endpointRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(endpoints) == 0 {
		w.log.Debug().Int("events", len(events)).Msg("no active webhook endpoints configured")
		return 0, nil
	}

	eventIDs := make([]string, len(events))
	for i := range events {
		eventIDs[i] = events[i].EventID
	}
	delivered, err := w.deliveryRepo.SucceededByEvent(ctx, eventIDs)
	if err != nil {
		return 0, err
	}

	sem := make(chan struct{}, w.cfg.MaxConcurrentDeliveries)
	processed := 0

	for i := range events {
		event := events[i]

		var matching []domain.WebhookEndpoint
		for _, ep := range endpoints {
			if !ep.Matches(event.EventType, event.TenantID) {
				continue
			}
			if delivered[event.EventID][ep.ID] {
				continue
			}
			matching = append(matching, ep)
		}
		if len(matching) == 0 {
			continue
		}

		payload := newWirePayload(&event)

		var wg sync.WaitGroup
		for _, ep := range matching {
			wg.Add(1)
			go func(ep domain.WebhookEndpoint) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				w.deliver(ctx, &ep, payload)
			}(ep)
		}
		wg.Wait()
		processed++

		if w.cfg.EventDelay > 0 && i < len(events)-1 {
			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(w.cfg.EventDelay):
			}
		}
	}

	if processed > 0 {
		w.log.Info().
			Int("events", len(events)).
			Int("delivered", processed).
			Msg("webhook fan-out pass completed")
	}
	return processed, nil
}

// deliver attempts a delivery up to the endpoint's retry budget, backing off
// linearly between attempts. Each attempt writes its own delivery log row.
func (w *deliveryWorker) deliver(ctx context.Context, endpoint *domain.WebhookEndpoint, payload wirePayload) {
	attempts := endpoint.MaxRetries
	if attempts <= 0 {
		attempts = domain.DefaultEndpointMaxRetries
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		delivery := w.sender.send(ctx, endpoint, payload)
		if delivery.Success {
			return
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * retryBackoffStep):
		}
	}

	w.log.Warn().
		Int64("endpoint_id", endpoint.ID).
		Str("event_id", payload.EventID).
		Int("attempts", attempts).
		Msg("webhook delivery attempts exhausted")
}

// Run polls RunOnce on an interval until ctx is cancelled. When a lock is
// configured the lease is acquired per tick and released after the pass, so
// only one worker instance delivers at a time.
func (w *deliveryWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", interval).Msg("webhook delivery worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("webhook delivery worker stopped")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *deliveryWorker) tick(ctx context.Context) {
	if w.lock != nil {
		ok, err := w.lock.Acquire(ctx)
		if err != nil {
			w.log.Error().Err(err).Msg("acquiring worker lease failed")
			return
		}
		if !ok {
			w.log.Debug().Msg("worker lease held elsewhere, skipping tick")
			return
		}
		defer func() {
			if err := w.lock.Release(ctx); err != nil {
				w.log.Warn().Err(err).Msg("releasing worker lease failed")
			}
		}()
	}

	if _, err := w.RunOnce(ctx); err != nil {
		w.log.Error().Err(err).Msg("webhook delivery pass failed")
	}
}
