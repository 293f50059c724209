package integration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"servicedesk-relay/internal/core/domain"
	"servicedesk-relay/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentClaimSingleWinner verifies the conditional status update: when
// many pollers race for the same PENDING event, exactly one claims it.
func TestConcurrentClaimSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryOutboxRepo()
	dispatcher := service.NewEventDispatcher(repo, time.Minute, zerolog.New(io.Discard))

	tx, err := newInMemoryTransactor().Begin(ctx)
	require.NoError(t, err)
	event, err := dispatcher.Publish(ctx, tx, domain.NewTicketCreated(1, 1, "T-0001", "contested"))
	require.NoError(t, err)

	const pollers = 16
	var claimed int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < pollers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := dispatcher.MarkProcessing(ctx, event.EventID)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&claimed, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), claimed)

	stored, err := repo.GetByEventID(ctx, event.EventID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.EventStatusProcessing, stored.Status)
}

// TestConcurrentPublish verifies that parallel producers each land their own
// outbox row with a distinct event ID.
func TestConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryOutboxRepo()
	dispatcher := service.NewEventDispatcher(repo, time.Minute, zerolog.New(io.Discard))

	const producers = 25
	var wg sync.WaitGroup
	errs := make(chan error, producers)

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tx, err := newInMemoryTransactor().Begin(ctx)
			if err != nil {
				errs <- err
				return
			}
			_, err = dispatcher.Publish(ctx, tx, domain.NewTicketCreated(int64(n), 1, fmt.Sprintf("T-%04d", n), "load test"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	pending, err := dispatcher.ListPending(ctx, producers*2, nil)
	require.NoError(t, err)
	require.Len(t, pending, producers)

	seen := make(map[string]bool, producers)
	for _, e := range pending {
		assert.False(t, seen[e.EventID], "event ID %s repeated", e.EventID)
		seen[e.EventID] = true
		assert.Equal(t, domain.EventStatusPending, e.Status)
	}
}

// TestConcurrentRequeueSingleWinner verifies that racing operators cannot
// requeue the same FAILED event twice.
func TestConcurrentRequeueSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryOutboxRepo()
	dispatcher := service.NewEventDispatcher(repo, time.Millisecond, zerolog.New(io.Discard))
	dispatcher.RegisterHandler(domain.EventTicketCreated, func(ctx context.Context, event *domain.OutboxEvent) error {
		return fmt.Errorf("always failing")
	})

	tx, err := newInMemoryTransactor().Begin(ctx)
	require.NoError(t, err)
	event, err := dispatcher.Publish(ctx, tx, domain.NewTicketCreated(2, 1, "T-0002", "doomed"))
	require.NoError(t, err)

	for attempt := 0; attempt < domain.DefaultMaxRetries; attempt++ {
		_, err := dispatcher.ProcessPending(ctx, 10)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	stored, err := repo.GetByEventID(ctx, event.EventID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, domain.EventStatusFailed, stored.Status)

	const operators = 8
	var succeeded int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < operators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := dispatcher.Requeue(ctx, event.EventID); err == nil {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)

	stored, err = repo.GetByEventID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPending, stored.Status)
	assert.Equal(t, 0, stored.RetryCount)
}
