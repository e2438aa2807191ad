// Package lock provides the per-pool exclusive access discipline: every
// mutating pool operation runs under the pool's lock, so operations against
// one pool are observed in a single total order while different pools proceed
// in parallel.
package lock

import (
	"context"
	"sync"

	id "tanda/pkg/domain"
)

// KeyedLocker is the in-process PoolLocker: one semaphore per pool. Suitable
// for single-instance deployments and tests; multi-instance deployments use
// RedisLocker.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[id.PoolID]chan struct{}
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		slots: make(map[id.PoolID]chan struct{}),
	}
}

func (l *KeyedLocker) slot(poolID id.PoolID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[poolID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[poolID] = slot
	}
	return slot
}

// Acquire blocks until the pool lock is held or the context is cancelled.
func (l *KeyedLocker) Acquire(ctx context.Context, poolID id.PoolID) (func(), error) {
	slot := l.slot(poolID)
	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
