package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockHeld is returned when another reconciliation run holds the lease.
// The reference resync and the dependency-ordered load read and write the
// same reference rows, so they must never overlap.
var ErrLockHeld = errors.New("reconciliation already running")

// ReconcileLock serializes reconciliation units of work against one
// destination store.
type ReconcileLock interface {
	// Acquire takes the lease or returns ErrLockHeld
	Acquire(ctx context.Context) error
	// Release gives the lease back; releasing an expired lease is a no-op
	Release(ctx context.Context) error
}

// InMemoryReconcileLock is a single-process lease, suitable for tests and
// single-instance deployments.
type InMemoryReconcileLock struct {
	mu       sync.Mutex
	held     bool
	expireAt time.Time
	ttl      time.Duration
}

// NewInMemoryReconcileLock creates an in-memory lease with the given TTL
func NewInMemoryReconcileLock(ttl time.Duration) *InMemoryReconcileLock {
	return &InMemoryReconcileLock{ttl: ttl}
}

// Acquire implements ReconcileLock
func (l *InMemoryReconcileLock) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held && time.Now().Before(l.expireAt) {
		return ErrLockHeld
	}
	l.held = true
	l.expireAt = time.Now().Add(l.ttl)
	return nil
}

// Release implements ReconcileLock
func (l *InMemoryReconcileLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
