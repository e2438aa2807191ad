package pool

import (
	"context"
	"sync"

	"tanda/internal/pool/models"
	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

// InMemoryPoolStore keeps aggregates in a map. Reads and writes exchange deep
// copies so no caller ever holds a reference into the stored state.
type InMemoryPoolStore struct {
	mu    sync.RWMutex
	pools map[id.PoolID]*models.Pool
}

func NewMemory() *InMemoryPoolStore {
	return &InMemoryPoolStore{
		pools: make(map[id.PoolID]*models.Pool),
	}
}

// Save stores the aggregate, enforcing optimistic concurrency: the incoming
// version must match the stored one. The stored copy gets version+1.
func (s *InMemoryPoolStore) Save(_ context.Context, pool *models.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pools[pool.ID]; ok && existing.Version != pool.Version {
		return sentinel.ErrConflict
	}
	stored := pool.Clone()
	stored.Version++
	s.pools[pool.ID] = stored
	pool.Version = stored.Version
	return nil
}

func (s *InMemoryPoolStore) FindByID(_ context.Context, poolID id.PoolID) (*models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return pool.Clone(), nil
}

func (s *InMemoryPoolStore) List(_ context.Context) ([]*models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Pool, 0, len(s.pools))
	for _, pool := range s.pools {
		out = append(out, pool.Clone())
	}
	return out, nil
}
