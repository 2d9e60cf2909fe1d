package session

import (
	"context"
	"sync"
)

// MemoryStore is a Store backed by a map. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (m *MemoryStore) SetToken(_ context.Context, role Role, value string) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.tokens[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetToken(_ context.Context, role Role) (string, bool) {
	key, err := role.StorageKey()
	if err != nil {
		return "", false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.tokens[key]
	return v, ok
}

func (m *MemoryStore) Clear(_ context.Context, role Role) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.tokens, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ClearAll(context.Context) error {
	m.mu.Lock()
	m.tokens = make(map[string]string)
	m.mu.Unlock()
	return nil
}
