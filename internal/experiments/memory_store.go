package experiments

import (
	"context"
	"sync"
)

// MemoryAssignmentStore keeps assignments in process memory. Used in tests
// and when the service runs without Redis.
type MemoryAssignmentStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryAssignmentStore() *MemoryAssignmentStore {
	return &MemoryAssignmentStore{m: make(map[string]string)}
}

func (s *MemoryAssignmentStore) Get(_ context.Context, visitorID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[visitorID], nil
}

func (s *MemoryAssignmentStore) Set(_ context.Context, visitorID, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[visitorID] = variant
	return nil
}

// Clear drops all assignments. Administrative reset only.
func (s *MemoryAssignmentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]string)
}
