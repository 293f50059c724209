package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Token-checked release and refresh so an expired holder cannot stomp on a
// newer one.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// WorkerLock implements ports.WorkerLock as a Redis SET NX lease. The outbox
// tables are read without row claiming, so only one delivery worker may be
// active at a time; the lease enforces that across replicas.
type WorkerLock struct {
	client *goredis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewWorkerLock creates a lease with a process-unique token.
func NewWorkerLock(client *goredis.Client, key string, ttl time.Duration) *WorkerLock {
	return &WorkerLock{
		client: client,
		key:    key,
		token:  uuid.New().String(),
		ttl:    ttl,
	}
}

// Acquire tries to take the lease. Returns false if another holder owns it.
func (l *WorkerLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return ok, nil
}

// Refresh extends the lease while this instance still holds it.
func (l *WorkerLock) Refresh(ctx context.Context) error {
	n, err := refreshScript.Run(ctx, l.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis lock refresh: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("redis lock refresh: lease lost")
	}
	return nil
}

// Release gives the lease up if this instance still holds it.
func (l *WorkerLock) Release(ctx context.Context) error {
	if _, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
