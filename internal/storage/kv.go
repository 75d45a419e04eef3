// internal/storage/kv.go
//
// Durable key-value boundary for saved games. Implementations may be
// backed by memory (below) or SQLite (sqlite.go). The contract is
// synchronous and record-scoped: one value per key.

package storage

import "sync"

// KV is the minimal durable store the persistence adapter writes to.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes the record for key; removing a missing key is not
	// an error.
	Remove(key string) error
}

// memoryKV is a map-based KV used in tests and when no database is
// configured. State is lost when the process restarts.
type memoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV constructs an in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
