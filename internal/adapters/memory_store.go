package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// MemoryStore is an in-memory ports.TreeStore, used for tests and as the
// default when no persistence is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trees: make(map[string][]byte),
	}
}

// Save stores a copy of the document.
func (s *MemoryStore) Save(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[name] = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the stored document.
func (s *MemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.trees[name]
	if !ok {
		return nil, fmt.Errorf("tree %q: %w", name, domain.ErrTreeNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the document.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.trees))
	for name := range s.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
