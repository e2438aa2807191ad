package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tanda/pkg/domain"
	dErrors "tanda/pkg/domain-errors"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newFormingPool(t *testing.T, extraMembers int) (*Pool, []id.AccountID) {
	t.Helper()
	creator := id.NewAccountID()
	manager := id.NewAccountID()
	pool, err := NewPool(creator, manager, 100, t0)
	require.NoError(t, err)

	members := []id.AccountID{creator}
	for i := 0; i < extraMembers; i++ {
		candidate := id.NewAccountID()
		require.NoError(t, pool.Invite(creator, candidate))
		members = append(members, candidate)
	}
	return pool, members
}

// newActivePool returns a started 5-member pool whose payout order matches
// the roster order.
func newActivePool(t *testing.T) (*Pool, []id.AccountID) {
	t.Helper()
	pool, members := newFormingPool(t, 4)
	require.NoError(t, pool.Start(pool.Creator, members, t0))
	return pool, members
}

func contributeAll(t *testing.T, pool *Pool, members []id.AccountID) {
	t.Helper()
	for _, m := range members {
		_, err := pool.Contribute(m, pool.ContributionAmount)
		require.NoError(t, err)
	}
}

func TestNewPool(t *testing.T) {
	creator := id.NewAccountID()
	manager := id.NewAccountID()

	t.Run("creator is seated as the first member", func(t *testing.T) {
		pool, err := NewPool(creator, manager, 100, t0)
		require.NoError(t, err)
		assert.Equal(t, StatusForming, pool.Status())
		assert.Equal(t, []id.AccountID{creator}, pool.Members)
		assert.Equal(t, 0, pool.CurrentRound)
		assert.False(t, pool.Active)
	})

	t.Run("rejects non-positive contribution amount", func(t *testing.T) {
		_, err := NewPool(creator, manager, 0, t0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = NewPool(creator, manager, -5, t0)
		require.Error(t, err)
	})

	t.Run("rejects nil creator or manager", func(t *testing.T) {
		_, err := NewPool(id.AccountID{}, manager, 100, t0)
		require.Error(t, err)
		_, err = NewPool(creator, id.AccountID{}, 100, t0)
		require.Error(t, err)
	})
}

func TestInvite(t *testing.T) {
	t.Run("creator and backend manager can invite", func(t *testing.T) {
		pool, _ := newFormingPool(t, 0)
		require.NoError(t, pool.Invite(pool.Creator, id.NewAccountID()))
		require.NoError(t, pool.Invite(pool.BackendManager, id.NewAccountID()))
		assert.Equal(t, 3, pool.MemberCount())
	})

	t.Run("other accounts cannot invite", func(t *testing.T) {
		pool, _ := newFormingPool(t, 0)
		err := pool.Invite(id.NewAccountID(), id.NewAccountID())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, 1, pool.MemberCount())
	})

	t.Run("duplicate invite is rejected, not ignored", func(t *testing.T) {
		pool, _ := newFormingPool(t, 0)
		candidate := id.NewAccountID()
		require.NoError(t, pool.Invite(pool.Creator, candidate))
		err := pool.Invite(pool.Creator, candidate)
		assert.ErrorIs(t, err, ErrAlreadyMember)
		assert.Equal(t, 2, pool.MemberCount())
	})

	t.Run("thirteenth member is rejected with capacity error", func(t *testing.T) {
		pool, _ := newFormingPool(t, MaxMembers-1)
		require.Equal(t, MaxMembers, pool.MemberCount())

		err := pool.Invite(pool.Creator, id.NewAccountID())
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, MaxMembers, pool.MemberCount())
	})

	t.Run("no invites once the pool has started", func(t *testing.T) {
		pool, _ := newActivePool(t)
		err := pool.Invite(pool.Creator, id.NewAccountID())
		assert.ErrorIs(t, err, ErrPoolAlreadyStarted)
	})
}

func TestStart(t *testing.T) {
	t.Run("only the creator can start", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		err := pool.Start(pool.BackendManager, members, t0)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, StatusForming, pool.Status())
	})

	t.Run("requires the minimum roster", func(t *testing.T) {
		pool, members := newFormingPool(t, 3)
		err := pool.Start(pool.Creator, members, t0)
		assert.ErrorIs(t, err, ErrNotEnoughMembers)
	})

	t.Run("rejects wrong-length order", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		err := pool.Start(pool.Creator, members[:4], t0)
		assert.ErrorIs(t, err, ErrInvalidPayoutOrderLength)
	})

	t.Run("rejects duplicates in the order", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		order := append([]id.AccountID(nil), members[:4]...)
		order = append(order, members[0])
		err := pool.Start(pool.Creator, order, t0)
		assert.ErrorIs(t, err, ErrDuplicateInPayoutOrder)
	})

	t.Run("rejects non-members in the order", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		order := append([]id.AccountID(nil), members[:4]...)
		order = append(order, id.NewAccountID())
		err := pool.Start(pool.Creator, order, t0)
		assert.ErrorIs(t, err, ErrPayoutOrderContainsNonMember)
	})

	t.Run("rejected start leaves membership and round state unchanged", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		badOrder := append([]id.AccountID(nil), members[:4]...)
		badOrder = append(badOrder, members[0])
		require.Error(t, pool.Start(pool.Creator, badOrder, t0))

		assert.Equal(t, StatusForming, pool.Status())
		assert.Equal(t, 0, pool.CurrentRound)
		assert.Empty(t, pool.PayoutOrder)
		assert.Len(t, pool.Members, 5)
	})

	t.Run("valid permutation starts round 1", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		// Reverse roster order: any permutation of the members is valid.
		order := make([]id.AccountID, len(members))
		for i, m := range members {
			order[len(members)-1-i] = m
		}
		require.NoError(t, pool.Start(pool.Creator, order, t0))

		assert.Equal(t, StatusActive, pool.Status())
		assert.Equal(t, 1, pool.CurrentRound)
		assert.Equal(t, t0, pool.RoundStartTime)
		assert.Equal(t, order, pool.PayoutOrder)
		assert.Equal(t, order[0], pool.CurrentRecipient())
	})

	t.Run("cannot start twice", func(t *testing.T) {
		pool, members := newActivePool(t)
		err := pool.Start(pool.Creator, members, t0)
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("start order is frozen against the caller's slice", func(t *testing.T) {
		pool, members := newFormingPool(t, 4)
		order := append([]id.AccountID(nil), members...)
		require.NoError(t, pool.Start(pool.Creator, order, t0))
		order[0] = id.NewAccountID()
		assert.Equal(t, members[0], pool.PayoutOrder[0])
	})
}

func TestContribute(t *testing.T) {
	t.Run("fails while forming", func(t *testing.T) {
		pool, _ := newFormingPool(t, 4)
		_, err := pool.Contribute(pool.Creator, 100)
		assert.ErrorIs(t, err, ErrNotActive)
	})

	t.Run("rejects non-members", func(t *testing.T) {
		pool, _ := newActivePool(t)
		_, err := pool.Contribute(id.NewAccountID(), 100)
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("requires the exact amount", func(t *testing.T) {
		pool, members := newActivePool(t)
		_, err := pool.Contribute(members[1], 99)
		assert.ErrorIs(t, err, ErrIncorrectAmount)
		_, err = pool.Contribute(members[1], 101)
		assert.ErrorIs(t, err, ErrIncorrectAmount)
	})

	t.Run("second contribution in the same round is rejected", func(t *testing.T) {
		pool, members := newActivePool(t)
		_, err := pool.Contribute(members[1], 100)
		require.NoError(t, err)
		_, err = pool.Contribute(members[1], 100)
		assert.ErrorIs(t, err, ErrAlreadyContributed)
		assert.Equal(t, int64(100), pool.TotalContributed[members[1]])
	})

	t.Run("reports when the round becomes fully funded", func(t *testing.T) {
		pool, members := newActivePool(t)
		for i, m := range members {
			allPaid, err := pool.Contribute(m, 100)
			require.NoError(t, err)
			assert.Equal(t, i == len(members)-1, allPaid)
		}
		assert.True(t, pool.EveryonePaid())
	})

	t.Run("total contributed accumulates across rounds", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)
		require.NoError(t, pool.StartNextRound(members[1], t0.Add(CycleDuration)))

		contributeAll(t, pool, members)
		for _, m := range members {
			assert.Equal(t, int64(200), pool.TotalContributed[m])
		}
	})
}

func TestMarkPaidOut(t *testing.T) {
	t.Run("only the designated recipient can claim", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)

		for _, m := range members[1:] {
			_, err := pool.MarkPaidOut(m, t0)
			assert.ErrorIs(t, err, ErrOnlyRecipientCanClaim)
		}
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)
	})

	t.Run("rejects claim before everyone has paid", func(t *testing.T) {
		pool, members := newActivePool(t)
		for _, m := range members[:4] {
			_, err := pool.Contribute(m, 100)
			require.NoError(t, err)
		}
		_, err := pool.MarkPaidOut(members[0], t0)
		assert.ErrorIs(t, err, ErrNotEveryoneHasPaid)
		assert.False(t, pool.RoundPaidOut[1])
	})

	t.Run("second claim for the same round is rejected", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)

		_, err = pool.MarkPaidOut(members[0], t0)
		assert.ErrorIs(t, err, ErrRoundAlreadyPaidOut)
	})

	t.Run("marks recipient as paid exactly once", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)
		assert.True(t, pool.HasReceivedPayout[members[0]])
		assert.True(t, pool.RoundPaidOut[1])
		assert.False(t, pool.Complete)
	})

	t.Run("final round completes the pool", func(t *testing.T) {
		pool, members := newActivePool(t)
		now := t0
		for round := 1; round <= len(members); round++ {
			contributeAll(t, pool, members)
			completed, err := pool.MarkPaidOut(members[round-1], now)
			require.NoError(t, err)
			assert.Equal(t, round == len(members), completed)

			if round < len(members) {
				now = now.Add(CycleDuration)
				require.NoError(t, pool.StartNextRound(members[0], now))
			}
		}

		assert.True(t, pool.Complete)
		assert.False(t, pool.Active)
		assert.Equal(t, StatusCompleted, pool.Status())
		for _, m := range members {
			assert.True(t, pool.HasReceivedPayout[m])
		}
	})

	t.Run("completed pool rejects further mutation", func(t *testing.T) {
		pool, members := newActivePool(t)
		now := t0
		for round := 1; round <= len(members); round++ {
			contributeAll(t, pool, members)
			_, err := pool.MarkPaidOut(members[round-1], now)
			require.NoError(t, err)
			if round < len(members) {
				now = now.Add(CycleDuration)
				require.NoError(t, pool.StartNextRound(members[0], now))
			}
		}

		_, err := pool.Contribute(members[0], 100)
		assert.ErrorIs(t, err, ErrNotActive)
		_, err = pool.MarkPaidOut(members[4], now)
		assert.ErrorIs(t, err, ErrNotActive)
		assert.ErrorIs(t, pool.StartNextRound(members[0], now.Add(CycleDuration)), ErrNotActive)
		assert.ErrorIs(t, pool.Invite(pool.Creator, id.NewAccountID()), ErrPoolAlreadyStarted)
	})
}

func TestStartNextRound(t *testing.T) {
	t.Run("fails before the round is paid out regardless of elapsed time", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)

		err := pool.StartNextRound(members[0], t0.Add(2*CycleDuration))
		assert.ErrorIs(t, err, ErrRoundNotPaidOut)
		assert.Equal(t, 1, pool.CurrentRound)
	})

	t.Run("fails before the cooldown has elapsed", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)

		err = pool.StartNextRound(members[1], t0.Add(CycleDuration-time.Second))
		assert.ErrorIs(t, err, ErrCycleNotComplete)
		assert.Equal(t, 1, pool.CurrentRound)
	})

	t.Run("any member may advance, non-members may not", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)

		err = pool.StartNextRound(id.NewAccountID(), t0.Add(CycleDuration))
		assert.ErrorIs(t, err, ErrNotAMember)

		require.NoError(t, pool.StartNextRound(members[3], t0.Add(CycleDuration)))
		assert.Equal(t, 2, pool.CurrentRound)
		assert.Equal(t, t0.Add(CycleDuration), pool.RoundStartTime)
		assert.Equal(t, members[1], pool.CurrentRecipient())
	})

	t.Run("contribution ledger resets per round", func(t *testing.T) {
		pool, members := newActivePool(t)
		contributeAll(t, pool, members)
		_, err := pool.MarkPaidOut(members[0], t0)
		require.NoError(t, err)
		require.NoError(t, pool.StartNextRound(members[0], t0.Add(CycleDuration)))

		assert.False(t, pool.EveryonePaid())
		assert.False(t, pool.HasContributed(members[0], 2))
		assert.True(t, pool.HasContributed(members[0], 1))
	})
}

func TestClone(t *testing.T) {
	pool, members := newActivePool(t)
	contributeAll(t, pool, members)

	clone := pool.Clone()
	_, err := clone.MarkPaidOut(members[0], t0)
	require.NoError(t, err)
	clone.Members = append(clone.Members, id.NewAccountID())

	assert.False(t, pool.RoundPaidOut[1], "mutating the clone must not touch the original")
	assert.Len(t, pool.Members, 5)
	assert.False(t, pool.HasReceivedPayout[members[0]])
}

func TestPotAmount(t *testing.T) {
	pool, _ := newActivePool(t)
	assert.Equal(t, int64(500), pool.PotAmount())
}
