// Package iconcache resolves work item type icons and keeps them in a flat
// key/value cache keyed by project and type.
package iconcache

import (
	"context"
	"sync"
)

// KeySeparator joins project and type in cache keys.
const KeySeparator = "!!"

// Key returns the cache key for a work item type icon of project.
func Key(project, workItemType string) string {
	return project + KeySeparator + workItemType
}

// Store is a flat string-to-string cache of icon URIs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, entries map[string]string) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore is a Store that lives for the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uri, ok := s.entries[key]
	return uri, ok, nil
}

func (s *MemoryStore) SetMany(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return nil
}

// Len reports the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
