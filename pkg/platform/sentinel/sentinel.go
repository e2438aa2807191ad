package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and sinks return these
// (optionally wrapped) so the pool service can translate them into domain
// errors without string matching.
//
// These represent factual states about resources, not rule violations:
// - ErrNotFound: pool or account does not exist in the store
// - ErrConflict: concurrent write lost (stale aggregate version)
// - ErrInsufficientFunds: ledger account cannot cover the requested movement
// - ErrUnavailable: store, lock, or transfer sink temporarily unreachable;
//   the outcome of an unavailable transfer is unknown and must be surfaced
//   to the caller as retryable, never retried silently by the engine.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("unavailable")
)
