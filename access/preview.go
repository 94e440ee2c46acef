package access

import (
	"context"
	"sync"
)

// previewKeyPrefix is the fixed prefix for preview-usage flag keys. The core
// defines only the key shape and the boolean contract below; any small KV
// backend can hold the flags.
const previewKeyPrefix = "triage-free-preview"

// PreviewKey derives the storage key for a user's free-preview flag. An
// empty userID maps to the shared anonymous key.
func PreviewKey(userID string) string {
	if userID == "" {
		userID = "anon"
	}
	return previewKeyPrefix + "-" + userID
}

// PreviewStore is the boolean key-value contract for free-preview flags.
// Get returns false for a key that was never set.
type PreviewStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, used bool) error
	Clear(ctx context.Context, key string) error
}

// InMemoryPreviewStore implements PreviewStore with a mutex-guarded map.
// Suitable for tests and single-process deployments.
type InMemoryPreviewStore struct {
	flags map[string]bool
	mu    sync.RWMutex
}

// NewInMemoryPreviewStore creates an empty in-memory store.
func NewInMemoryPreviewStore() *InMemoryPreviewStore {
	return &InMemoryPreviewStore{flags: make(map[string]bool)}
}

func (s *InMemoryPreviewStore) Get(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[key], nil
}

func (s *InMemoryPreviewStore) Set(_ context.Context, key string, used bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = used
	return nil
}

func (s *InMemoryPreviewStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, key)
	return nil
}
