// Package store implements data.Store: the content-addressed persistence
// backend cells are read from and written to. MemStore is the in-memory
// backend used by tests and short-lived peers; DiskStore is the durable
// badger-backed backend described in spec §6's persisted state layout.
package store

import (
	"sync"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/hash"
)

var _ data.Store = (*MemStore)(nil)

// MemStore is a data.Store backed by a plain map, guarded by a mutex since
// peers may read/write concurrently with gossip delivery.
type MemStore struct {
	mu   sync.RWMutex
	data map[hash.Hash][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[hash.Hash][]byte)}
}

func (s *MemStore) Put(h hash.Hash, encoded []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[h]; exists {
		return nil
	}
	cp := make([]byte, len(encoded))
	copy(cp, encoded)
	s.data[h] = cp
	return nil
}

func (s *MemStore) Get(h hash.Hash) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[h]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true, nil
}

func (s *MemStore) Has(h hash.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[h]
	return ok, nil
}

// Count returns the number of distinct cells stored.
func (s *MemStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
