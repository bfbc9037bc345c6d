package store

import (
	"context"
	"sync"
	"time"

	"github.com/effective-security/toolbox/api"
)

type memoryEntry struct {
	manifest  *api.ManifestSchema
	expiresAt time.Time
}

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]memoryEntry
}

// NewMemoryStore returns a process-local ManifestStore.
func NewMemoryStore() ManifestStore {
	return &inMemory{}
}

func (m *inMemory) Get(_ context.Context, key string) (*api.ManifestSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil, nil
	}
	entry, ok := m.storage[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.manifest, nil
}

func (m *inMemory) Set(_ context.Context, key string, manifest *api.ManifestSchema, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]memoryEntry)
	}
	entry := memoryEntry{manifest: manifest}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.storage[key] = entry
	return nil
}

func (m *inMemory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, key)
	}
	return nil
}
