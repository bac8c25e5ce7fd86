package db

import (
	"context"
	"sync"
	"time"
)

// MockKVClient simulates a key-value store for testing and local development.
type MockKVClient struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMockKVClient initializes an empty in-memory store.
func NewMockKVClient() *MockKVClient {
	return &MockKVClient{data: make(map[string]string)}
}

// Set stores a key-value pair. TTLs are ignored, the mock never expires.
func (m *MockKVClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockKVClient) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MockKVClient) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockKVClient) Ping(ctx context.Context) error {
	return nil
}

// Len reports the number of stored keys.
func (m *MockKVClient) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
