// Package kvstore defines the scoped key-value contract the favorites manager
// persists through, plus an in-memory implementation.
//
// The sqlite-backed implementation lives in internal/database:
//
//	db, _ := database.NewDatabase("./atlas.db")
//	store := db.Scope(visitorID) // kvstore.Store
package kvstore

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a key has never been written in the scope.
var ErrNotFound = errors.New("key not found")

// Store is synchronous scoped storage keyed by string.
// Set fully overwrites any previous value.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemStore is a thread-safe in-memory Store.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemStore creates a store, optionally seeded with initial values.
func NewMemStore(initial map[string]string) *MemStore {
	data := make(map[string]string, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &MemStore{data: data}
}

func (m *MemStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}
