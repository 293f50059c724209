package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/internal/metrics"

	"github.com/rs/zerolog"
)

const webhookUserAgent = "ServiceDesk-Relay-Webhook/1.0"

// maxResponseBodyBytes caps how much of the receiver's response is stored in
// the delivery log.
const maxResponseBodyBytes = 64 * 1024

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// wirePayload is the JSON structure POSTed to webhook endpoints.
type wirePayload struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	Metadata      map[string]any `json:"metadata"`
	Timestamp     string         `json:"timestamp"`
	TenantID      *int64         `json:"tenant_id"`
}

func newWirePayload(event *domain.OutboxEvent) wirePayload {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return wirePayload{
		EventID:       event.EventID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		Metadata:      metadata,
		Timestamp:     event.CreatedAt.UTC().Format(time.RFC3339),
		TenantID:      event.TenantID,
	}
}

// webhookSender is the single signed-delivery path shared by the delivery
// worker and endpoint test sends. Every attempt, successful or not, produces
// one delivery log row.
type webhookSender struct {
	deliveryRepo ports.DeliveryRepository
	sigSvc       ports.SignatureService
	httpClient   HTTPClient
	log          zerolog.Logger
}

func newWebhookSender(
	deliveryRepo ports.DeliveryRepository,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *webhookSender {
	return &webhookSender{
		deliveryRepo: deliveryRepo,
		sigSvc:       sigSvc,
		httpClient:   httpClient,
		log:          log,
	}
}

// send serializes the payload, signs it when the endpoint has a secret, POSTs
// it with the endpoint's timeout and records the attempt.
func (s *webhookSender) send(ctx context.Context, endpoint *domain.WebhookEndpoint, payload wirePayload) *domain.WebhookDelivery {
	body, err := json.Marshal(payload)
	if err != nil {
		// Payload maps always marshal; this guards future field additions.
		msg := fmt.Sprintf("marshaling webhook payload: %v", err)
		delivery := &domain.WebhookDelivery{
			EndpointID:   endpoint.ID,
			EventID:      payload.EventID,
			URL:          endpoint.URL,
			Headers:      map[string]string{},
			Success:      false,
			ErrorMessage: &msg,
			AttemptedAt:  time.Now().UTC(),
		}
		s.record(ctx, delivery)
		return delivery
	}

	headers := map[string]string{
		"Content-Type":       "application/json",
		"User-Agent":         webhookUserAgent,
		"X-Webhook-Delivery": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if endpoint.Secret != nil && *endpoint.Secret != "" {
		headers["X-Hub-Signature-256"] = "sha256=" + s.sigSvc.Sign(*endpoint.Secret, body)
	}

	delivery := &domain.WebhookDelivery{
		EndpointID:  endpoint.ID,
		EventID:     payload.EventID,
		URL:         endpoint.URL,
		Headers:     headers,
		Payload:     body,
		AttemptedAt: time.Now().UTC(),
	}

	reqCtx, cancel := context.WithTimeout(ctx, endpoint.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		msg := fmt.Sprintf("creating webhook request: %v", err)
		delivery.ErrorMessage = &msg
		s.record(ctx, delivery)
		return delivery
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		var msg string
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("webhook delivery timed out after %s", endpoint.Timeout())
		} else {
			msg = fmt.Sprintf("webhook delivery error: %v", err)
		}
		delivery.ErrorMessage = &msg
		metrics.WebhookDeliveriesTotal.WithLabelValues("failure").Inc()
		s.log.Warn().
			Err(err).
			Int64("endpoint_id", endpoint.ID).
			Str("event_id", payload.EventID).
			Msg("webhook delivery failed")
		s.record(ctx, delivery)
		return delivery
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	respBody := string(respBytes)
	durationMs := elapsed.Milliseconds()

	delivery.StatusCode = &resp.StatusCode
	delivery.ResponseBody = &respBody
	delivery.DurationMs = &durationMs
	delivery.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	metrics.WebhookDeliveryDuration.Observe(elapsed.Seconds())
	if delivery.Success {
		metrics.WebhookDeliveriesTotal.WithLabelValues("success").Inc()
		s.log.Info().
			Int64("endpoint_id", endpoint.ID).
			Str("event_id", payload.EventID).
			Int("status", resp.StatusCode).
			Int64("duration_ms", durationMs).
			Msg("webhook delivered")
	} else {
		metrics.WebhookDeliveriesTotal.WithLabelValues("failure").Inc()
		s.log.Warn().
			Int64("endpoint_id", endpoint.ID).
			Str("event_id", payload.EventID).
			Int("status", resp.StatusCode).
			Msg("webhook delivery returned non-2xx status")
	}

	s.record(ctx, delivery)
	return delivery
}

// record appends the delivery row. Log persistence failures must not mask the
// delivery outcome, so errors are logged and swallowed.
func (s *webhookSender) record(ctx context.Context, delivery *domain.WebhookDelivery) {
	if err := s.deliveryRepo.Insert(ctx, delivery); err != nil {
		s.log.Error().
			Err(err).
			Int64("endpoint_id", delivery.EndpointID).
			Str("event_id", delivery.EventID).
			Msg("recording webhook delivery failed")
	}
}
