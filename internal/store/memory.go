package store

import (
	"context"
	"sync"

	"worktracker/internal/core"
)

// MemStore is an in-memory Store for tests and throwaway runs. It honours
// the same NotFound-before-first-save contract as the durable backends.
type MemStore struct {
	mu   sync.Mutex
	snap *core.Dataset
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(_ context.Context) (*core.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, core.ErrNotFound
	}
	return s.snap.Clone(), nil
}

func (s *MemStore) Save(_ context.Context, d *core.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = d.Clone()
	return nil
}
