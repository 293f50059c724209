package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/core/ports"
	"servicedesk-relay/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newManagerForTest(t *testing.T, client HTTPClient) (ports.WebhookManager, *mocks.MockEndpointRepository, *mocks.MockDeliveryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	endpointRepo := mocks.NewMockEndpointRepository(ctrl)
	deliveryRepo := mocks.NewMockDeliveryRepository(ctrl)
	mgr := NewWebhookManager(endpointRepo, deliveryRepo, NewHMACSignatureService(), client, newTestLogger())
	return mgr, endpointRepo, deliveryRepo
}

func TestWebhookManager_CreateEndpoint_Defaults(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)

	var inserted *domain.WebhookEndpoint
	endpointRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ep *domain.WebhookEndpoint) error {
			ep.ID = 9
			inserted = ep
			return nil
		})

	endpoint, err := mgr.CreateEndpoint(context.Background(), ports.CreateEndpointParams{
		Name:       "ticketing-bridge",
		URL:        "https://bridge.example.com/hook",
		EventTypes: []string{domain.EventTicketCreated},
		TenantID:   int64Ptr(3),
	})
	require.NoError(t, err)

	require.NotNil(t, inserted)
	assert.Equal(t, int64(9), endpoint.ID)
	assert.True(t, endpoint.Active)
	assert.Equal(t, domain.DefaultEndpointTimeoutSeconds, endpoint.TimeoutSeconds)
	assert.Equal(t, domain.DefaultEndpointMaxRetries, endpoint.MaxRetries)
	assert.False(t, endpoint.CreatedAt.IsZero())
}

func TestWebhookManager_CreateEndpoint_Validation(t *testing.T) {
	mgr, _, _ := newManagerForTest(t, nil)
	ctx := context.Background()

	_, err := mgr.CreateEndpoint(ctx, ports.CreateEndpointParams{
		Name:       "bad-url",
		URL:        "ftp://files.example.com",
		EventTypes: []string{domain.EventTicketCreated},
	})
	assertAppErrorCode(t, err, "WHK_001")

	_, err = mgr.CreateEndpoint(ctx, ports.CreateEndpointParams{
		Name: "no-types",
		URL:  "https://bridge.example.com/hook",
	})
	assertAppErrorCode(t, err, "WHK_002")

	_, err = mgr.CreateEndpoint(ctx, ports.CreateEndpointParams{
		URL:        "https://bridge.example.com/hook",
		EventTypes: []string{domain.EventTicketCreated},
	})
	assertAppErrorCode(t, err, "VAL_001")
}

func TestWebhookManager_GetEndpoint_NotFound(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)

	_, err := mgr.GetEndpoint(context.Background(), 404)
	assertAppErrorCode(t, err, "WHK_003")
}

func TestWebhookManager_UpdateEndpoint(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)

	endpoint := &domain.WebhookEndpoint{
		ID:         5,
		Name:       "renamed",
		URL:        "https://bridge.example.com/hook",
		EventTypes: []string{domain.EventAssetCreated},
	}

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&domain.WebhookEndpoint{ID: 5}, nil)
	endpointRepo.EXPECT().Update(gomock.Any(), endpoint).Return(nil)

	assert.NoError(t, mgr.UpdateEndpoint(context.Background(), endpoint))
}

func TestWebhookManager_UpdateEndpoint_NotFound(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)

	endpoint := &domain.WebhookEndpoint{
		ID:         6,
		Name:       "ghost",
		URL:        "https://bridge.example.com/hook",
		EventTypes: []string{domain.EventAssetCreated},
	}

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(6)).Return(nil, nil)

	assertAppErrorCode(t, mgr.UpdateEndpoint(context.Background(), endpoint), "WHK_003")
}

func TestWebhookManager_DeleteEndpoint(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)
	ctx := context.Background()

	endpointRepo.EXPECT().GetByID(ctx, int64(5)).Return(&domain.WebhookEndpoint{ID: 5}, nil)
	endpointRepo.EXPECT().Delete(ctx, int64(5)).Return(nil)
	assert.NoError(t, mgr.DeleteEndpoint(ctx, 5))

	endpointRepo.EXPECT().GetByID(ctx, int64(6)).Return(nil, nil)
	assertAppErrorCode(t, mgr.DeleteEndpoint(ctx, 6), "WHK_003")
}

func TestWebhookManager_TestEndpoint(t *testing.T) {
	client := &mockHTTPClient{doFunc: func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusAccepted,
			Body:       io.NopCloser(strings.NewReader(`{"received":true}`)),
		}, nil
	}}
	mgr, endpointRepo, deliveryRepo := newManagerForTest(t, client)

	secret := "s3cr3t"
	endpoint := &domain.WebhookEndpoint{
		ID:             3,
		Name:           "probe",
		URL:            "https://bridge.example.com/hook",
		Secret:         &secret,
		EventTypes:     []string{domain.EventTicketCreated},
		Active:         true,
		TimeoutSeconds: 5,
		TenantID:       int64Ptr(8),
	}

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(endpoint, nil)

	var recorded *domain.WebhookDelivery
	deliveryRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *domain.WebhookDelivery) error {
			recorded = d
			return nil
		})

	result, err := mgr.TestEndpoint(context.Background(), 3)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusAccepted, *result.StatusCode)
	assert.Equal(t, `{"received":true}`, *result.ResponseBody)
	assert.NotNil(t, result.DurationMs)
	assert.Nil(t, result.Error)

	// The test send goes through the regular signed path and is logged.
	require.NotNil(t, recorded)
	assert.Contains(t, recorded.Headers, "X-Hub-Signature-256")
	require.Equal(t, 1, client.callCount())
	body := string(client.bodies[0])
	assert.Contains(t, body, `"event_type":"webhook.test"`)
	assert.Contains(t, body, `"tenant_id":8`)
}

func TestWebhookManager_TestEndpoint_NotFound(t *testing.T) {
	mgr, endpointRepo, _ := newManagerForTest(t, nil)

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)

	_, err := mgr.TestEndpoint(context.Background(), 99)
	assertAppErrorCode(t, err, "WHK_003")
}

func TestWebhookManager_Stats(t *testing.T) {
	mgr, endpointRepo, deliveryRepo := newManagerForTest(t, nil)

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.WebhookEndpoint{ID: 3}, nil)

	var since time.Time
	deliveryRepo.EXPECT().Stats(gomock.Any(), int64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, s time.Time) (*domain.EndpointStats, error) {
			since = s
			return &domain.EndpointStats{
				TotalDeliveries:      10,
				SuccessfulDeliveries: 9,
				FailedDeliveries:     1,
				SuccessRate:          90,
				AverageDurationMs:    120.5,
			}, nil
		})

	stats, err := mgr.Stats(context.Background(), 3, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, stats.PeriodDays)
	assert.Equal(t, int64(10), stats.TotalDeliveries)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -30), since, 2*time.Second)
}

func TestWebhookManager_Stats_DefaultWindow(t *testing.T) {
	mgr, endpointRepo, deliveryRepo := newManagerForTest(t, nil)

	endpointRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.WebhookEndpoint{ID: 3}, nil)
	deliveryRepo.EXPECT().Stats(gomock.Any(), int64(3), gomock.Any()).
		Return(&domain.EndpointStats{}, nil)

	stats, err := mgr.Stats(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultStatsPeriodDays, stats.PeriodDays)
}
