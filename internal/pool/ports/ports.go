// Package ports defines shared interfaces for the pool module. Interfaces are
// placed here when consumed by multiple layers to avoid duplication.
package ports

import (
	"context"
	"time"

	"tanda/internal/pool/models"
	id "tanda/pkg/domain"
	"tanda/pkg/platform/audit"
)

// PoolStore persists pool aggregates. Save must reject stale versions with
// sentinel.ErrConflict so concurrent writers cannot clobber each other; Find
// must return sentinel.ErrNotFound for unknown pools.
type PoolStore interface {
	Save(ctx context.Context, pool *models.Pool) error
	FindByID(ctx context.Context, poolID id.PoolID) (*models.Pool, error)
	List(ctx context.Context) ([]*models.Pool, error)
}

// TransferSink performs the actual fund movement. The engine treats each call
// as an atomic external operation: an error means the movement must be assumed
// not to have happened, and sentinel.ErrUnavailable means the outcome is
// unknown and the caller must retry explicitly. The sink is never retried
// silently.
type TransferSink interface {
	// Deposit moves one contribution from a member into the pool escrow.
	Deposit(ctx context.Context, from id.AccountID, poolID id.PoolID, amount int64) error
	// Payout moves the full pot from the pool escrow to the recipient.
	Payout(ctx context.Context, poolID id.PoolID, to id.AccountID, amount int64) error
}

// PoolLocker linearizes all mutating operations against one pool. Operations
// on different pools proceed independently.
type PoolLocker interface {
	// Acquire blocks until the pool lock is held, then returns a release
	// function. Release must be called exactly once.
	Acquire(ctx context.Context, poolID id.PoolID) (release func(), err error)
}

// AuditPublisher emits audit events for pool lifecycle operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Clock supplies the round timestamps. Callers can never influence it, which
// keeps the cooldown gate tamper-resistant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
