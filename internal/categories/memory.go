package categories

import (
	"context"
	"sync"
)

// MemoryStore keeps mappings in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[string]Mapping
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mappings: make(map[string]Mapping)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Mapping, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[key]
	return m, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, m Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[key] = m
	return nil
}

func (s *MemoryStore) PutIfAbsent(ctx context.Context, key string, m Mapping) (Mapping, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.mappings[key]; ok {
		return existing, false, nil
	}
	s.mappings[key] = m
	return m, true, nil
}
