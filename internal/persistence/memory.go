package persistence

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV store. It backs tests and the "memory"
// storage driver; contents do not survive a restart.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the value under key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, found := m.data[key]
	return value, found, nil
}

// Set overwrites the value under key.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Ping always succeeds.
func (m *MemoryKV) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() {}
