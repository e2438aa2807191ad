// Package ledger implements the value-transfer sink: contributions flow from
// member accounts into a per-pool escrow, and the payout drains the escrow to
// the round's recipient. Every movement is atomic; a failed movement leaves
// both balances untouched.
package ledger

import (
	"context"
	"sync"

	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

// MemoryLedger keeps balances in memory. Used in tests and single-instance
// development setups.
type MemoryLedger struct {
	mu       sync.Mutex
	accounts map[id.AccountID]int64
	escrows  map[id.PoolID]int64
}

func NewMemory() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[id.AccountID]int64),
		escrows:  make(map[id.PoolID]int64),
	}
}

// Credit funds an account. Test and onboarding helper, not a pool operation.
func (l *MemoryLedger) Credit(account id.AccountID, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[account] += amount
}

// Balance returns the account's current balance.
func (l *MemoryLedger) Balance(account id.AccountID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[account]
}

// EscrowBalance returns the pool escrow's current balance.
func (l *MemoryLedger) EscrowBalance(poolID id.PoolID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.escrows[poolID]
}

func (l *MemoryLedger) Deposit(_ context.Context, from id.AccountID, poolID id.PoolID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accounts[from] < amount {
		return sentinel.ErrInsufficientFunds
	}
	l.accounts[from] -= amount
	l.escrows[poolID] += amount
	return nil
}

func (l *MemoryLedger) Payout(_ context.Context, poolID id.PoolID, to id.AccountID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.escrows[poolID] < amount {
		return sentinel.ErrInsufficientFunds
	}
	l.escrows[poolID] -= amount
	l.accounts[to] += amount
	return nil
}
