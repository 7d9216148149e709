package statestore

import (
	"context"
	"sync"

	"github.com/yanqian/critter-checklist/internal/domain/checklist"
)

// MemoryStore keeps the state blob in process memory. Useful for tests and local dev.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements checklist.Store.
func (s *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

// Save implements checklist.Store.
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

var _ checklist.Store = (*MemoryStore)(nil)
