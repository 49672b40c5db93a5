package storage

import "sync"

// Entry represents a stored value together with its replication version.
type Entry struct {
	Value   string `json:"value"`
	Version uint64 `json:"version"`
}

// Store defines the interface for key-value storage.
type Store interface {
	// Apply upserts the entry for key unless the stored version is newer.
	// Returns true if the store changed.
	Apply(key, value string, version uint64) bool
	// Get retrieves the entry for key. The second return is false if the
	// key has never been written here.
	Get(key string) (Entry, bool)
	// Dump returns a point-in-time copy of the full mapping.
	Dump() map[string]Entry
}

// InMemoryStore is an in-memory implementation of Store. A single lock
// guards every operation; there is no finer-grained locking.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// NewInMemoryStore creates a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]Entry),
	}
}

// Apply stores (value, version) under key if the key is absent or the
// incoming version is at least the stored one. A lower version is a silent
// no-op. The entry is swapped whole under the lock, never field by field.
func (s *InMemoryStore) Apply(key, value string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.data[key]; exists && version < old.Version {
		return false
	}

	s.data[key] = Entry{Value: value, Version: version}
	return true
}

// Get retrieves the entry for key.
func (s *InMemoryStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.data[key]
	return entry, exists
}

// Dump returns a snapshot copy of the mapping taken under the store's lock.
// Mutating the returned map does not affect the store.
func (s *InMemoryStore) Dump() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]Entry, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	return snapshot
}
