package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanda/internal/pool/models"
	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

func newTestPool(t *testing.T) *models.Pool {
	t.Helper()
	pool, err := models.NewPool(id.NewAccountID(), id.NewAccountID(), 100,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return pool
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	pool := newTestPool(t)

	require.NoError(t, store.Save(ctx, pool))
	assert.Equal(t, int64(1), pool.Version)

	loaded, err := store.FindByID(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, pool.ID, loaded.ID)
	assert.Equal(t, pool.Creator, loaded.Creator)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemory()
	_, err := store.FindByID(context.Background(), id.NewPoolID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	pool := newTestPool(t)
	require.NoError(t, store.Save(ctx, pool))

	loaded, err := store.FindByID(ctx, pool.ID)
	require.NoError(t, err)
	loaded.Members = append(loaded.Members, id.NewAccountID())
	loaded.TotalContributed[loaded.Creator] = 999

	fresh, err := store.FindByID(ctx, pool.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Members, 1, "mutating a loaded copy must not leak into the store")
	assert.Zero(t, fresh.TotalContributed[fresh.Creator])

	// The saved pointer is equally detached.
	pool.Members = append(pool.Members, id.NewAccountID())
	fresh, err = store.FindByID(ctx, pool.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Members, 1)
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	pool := newTestPool(t)
	require.NoError(t, store.Save(ctx, pool))

	first, err := store.FindByID(ctx, pool.ID)
	require.NoError(t, err)
	second, err := store.FindByID(ctx, pool.ID)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, first))
	err = store.Save(ctx, second)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	pool := newTestPool(t)
	require.NoError(t, store.Save(ctx, pool))

	const writers = 16
	var wg sync.WaitGroup
	conflicts := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := store.FindByID(ctx, pool.ID)
			if err != nil {
				conflicts <- err
				return
			}
			conflicts <- store.Save(ctx, loaded)
		}()
	}
	wg.Wait()
	close(conflicts)

	// At least one writer wins; every loser gets the conflict sentinel.
	won := 0
	for err := range conflicts {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, sentinel.ErrConflict)
		}
	}
	assert.GreaterOrEqual(t, won, 1)
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	pools, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pools)

	first := newTestPool(t)
	second := newTestPool(t)
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	pools, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}
