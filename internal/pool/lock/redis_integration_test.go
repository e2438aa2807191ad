//go:build integration

package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tanda/pkg/domain"
	"tanda/pkg/testutil/containers"
)

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	t.Run("mutual exclusion across holders", func(t *testing.T) {
		locker := NewRedisLocker(rc.Client, 10*time.Second, WithRetryInterval(5*time.Millisecond))
		poolID := id.NewPoolID()

		const workers = 8
		var (
			wg      sync.WaitGroup
			counter int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locker.Acquire(ctx, poolID)
				require.NoError(t, err)
				defer release()
				counter++
			}()
		}
		wg.Wait()
		assert.Equal(t, workers, counter)
	})

	t.Run("release frees the key for the next holder", func(t *testing.T) {
		locker := NewRedisLocker(rc.Client, 10*time.Second)
		poolID := id.NewPoolID()

		release, err := locker.Acquire(ctx, poolID)
		require.NoError(t, err)
		release()

		quick, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		release2, err := locker.Acquire(quick, poolID)
		require.NoError(t, err)
		release2()
	})

	t.Run("contender times out while the lock is held", func(t *testing.T) {
		locker := NewRedisLocker(rc.Client, 10*time.Second, WithRetryInterval(5*time.Millisecond))
		poolID := id.NewPoolID()

		release, err := locker.Acquire(ctx, poolID)
		require.NoError(t, err)
		defer release()

		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = locker.Acquire(short, poolID)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("expired lock can be taken by a new holder", func(t *testing.T) {
		locker := NewRedisLocker(rc.Client, 100*time.Millisecond, WithRetryInterval(10*time.Millisecond))
		poolID := id.NewPoolID()

		stale, err := locker.Acquire(ctx, poolID)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		release, err := locker.Acquire(waitCtx, poolID)
		require.NoError(t, err)
		release()

		// The stale holder's release must not delete the new holder's key.
		stale()
	})
}
