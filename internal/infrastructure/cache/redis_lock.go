package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const reconcileLockKey = "reconcile:lock"

// releaseScript deletes the lease only if this instance still owns it, so a
// run that outlived its TTL cannot release a successor's lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisReconcileLock is a distributed reconciliation lease backed by a
// SETNX key with TTL. Suitable when several instances can trigger
// reconciliation against the same destination store.
type RedisReconcileLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisReconcileLock creates a Redis-backed reconciliation lease
func NewRedisReconcileLock(cfg RedisConfig, ttl time.Duration) (*RedisReconcileLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReconcileLock{
		client: client,
		key:    reconcileLockKey,
		token:  shared.NewID().String(),
		ttl:    ttl,
	}, nil
}

// NewRedisReconcileLockWithClient creates a lease over an existing client.
// Useful for tests and for sharing a client across components.
func NewRedisReconcileLockWithClient(client *redis.Client, ttl time.Duration) *RedisReconcileLock {
	return &RedisReconcileLock{
		client: client,
		key:    reconcileLockKey,
		token:  shared.NewID().String(),
		ttl:    ttl,
	}
}

// Acquire implements ReconcileLock using SETNX with TTL
func (l *RedisReconcileLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire reconcile lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release implements ReconcileLock
func (l *RedisReconcileLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release reconcile lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisReconcileLock) Close() error {
	return l.client.Close()
}

// Ensure both implementations satisfy ReconcileLock
var (
	_ ReconcileLock = (*RedisReconcileLock)(nil)
	_ ReconcileLock = (*InMemoryReconcileLock)(nil)
)
