package state

import (
	"context"
	"sync"
)

type memoryManager struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewMemoryManager constructs an in-memory Manager implementation for tests
// and local development.
func NewMemoryManager() Manager {
	return &memoryManager{states: make(map[int64]State)}
}

// Get returns the stored state for a user if it exists.
func (m *memoryManager) Get(_ context.Context, userID int64) (State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.states[userID]
	return st, ok, nil
}

// Set updates the state for a user.
func (m *memoryManager) Set(_ context.Context, userID int64, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[userID] = st
	return nil
}

// Close is a no-op for the in-memory manager.
func (m *memoryManager) Close() error { return nil }
