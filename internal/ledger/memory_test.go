package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

func TestMemoryLedgerDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds from account to escrow", func(t *testing.T) {
		l := NewMemory()
		account := id.NewAccountID()
		poolID := id.NewPoolID()
		l.Credit(account, 250)

		require.NoError(t, l.Deposit(ctx, account, poolID, 100))
		assert.Equal(t, int64(150), l.Balance(account))
		assert.Equal(t, int64(100), l.EscrowBalance(poolID))
	})

	t.Run("insufficient funds leaves both balances untouched", func(t *testing.T) {
		l := NewMemory()
		account := id.NewAccountID()
		poolID := id.NewPoolID()
		l.Credit(account, 50)

		err := l.Deposit(ctx, account, poolID, 100)
		assert.ErrorIs(t, err, sentinel.ErrInsufficientFunds)
		assert.Equal(t, int64(50), l.Balance(account))
		assert.Zero(t, l.EscrowBalance(poolID))
	})
}

func TestMemoryLedgerPayout(t *testing.T) {
	ctx := context.Background()

	t.Run("drains escrow to the recipient", func(t *testing.T) {
		l := NewMemory()
		poolID := id.NewPoolID()
		contributors := make([]id.AccountID, 5)
		for i := range contributors {
			contributors[i] = id.NewAccountID()
			l.Credit(contributors[i], 100)
			require.NoError(t, l.Deposit(ctx, contributors[i], poolID, 100))
		}

		recipient := contributors[0]
		require.NoError(t, l.Payout(ctx, poolID, recipient, 500))
		assert.Equal(t, int64(500), l.Balance(recipient))
		assert.Zero(t, l.EscrowBalance(poolID))
	})

	t.Run("underfunded escrow rejects the payout", func(t *testing.T) {
		l := NewMemory()
		poolID := id.NewPoolID()
		recipient := id.NewAccountID()

		err := l.Payout(ctx, poolID, recipient, 500)
		assert.ErrorIs(t, err, sentinel.ErrInsufficientFunds)
		assert.Zero(t, l.Balance(recipient))
	})
}

func TestMemoryLedgerConcurrentDeposits(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()
	account := id.NewAccountID()
	poolID := id.NewPoolID()

	const deposits = 20
	l.Credit(account, deposits*10)

	var wg sync.WaitGroup
	for i := 0; i < deposits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Deposit(ctx, account, poolID, 10)
		}()
	}
	wg.Wait()

	assert.Zero(t, l.Balance(account))
	assert.Equal(t, int64(deposits*10), l.EscrowBalance(poolID))
}
