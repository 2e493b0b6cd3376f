package blobstore

import (
	"context"
	"sync"

	"tldr/internal/core"
)

// MemoryStore is an in-memory Store used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, prefix core.BlobPrefix, mediaID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ObjectKey(prefix, mediaID, name)
	if _, exists := s.blobs[key]; exists {
		// Matches the GCS backend: a duplicate write of an immutable blob is
		// a no-op, not an error.
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, prefix core.BlobPrefix, mediaID, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[ObjectKey(prefix, mediaID, name)]
	if !exists {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, prefix core.BlobPrefix, mediaID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, ObjectKey(prefix, mediaID, name))
	return nil
}

// Len reports the number of stored blobs. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

func (s *MemoryStore) Close() error {
	return nil
}
