package metastore

import (
	"context"
	"sync"
	"time"

	"tldr/internal/core"
	"tldr/internal/models"
)

// MemoryStore is an in-memory Store used in tests. A single mutex gives it
// the same atomicity for conditional writes that Firestore transactions give
// the real backend.
type MemoryStore struct {
	mu    sync.Mutex
	media map[string]*models.Media
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{media: make(map[string]*models.Media)}
}

func (s *MemoryStore) Create(_ context.Context, media *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.media[media.MediaID]; exists {
		return ErrAlreadyExists
	}

	now := time.Now().UTC()
	media.CreatedAt = now
	media.UpdatedAt = now

	cp := *media
	s.media[media.MediaID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, mediaID string) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	media, exists := s.media[mediaID]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *media
	return &cp, nil
}

func (s *MemoryStore) SetStatus(_ context.Context, mediaID string, newStatus core.MediaStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	media, exists := s.media[mediaID]
	if !exists {
		return ErrNotFound
	}
	media.Status = newStatus
	media.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetStatusConditionally(_ context.Context, mediaID string, newStatus, expected core.MediaStatus) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	media, exists := s.media[mediaID]
	if !exists {
		return nil, ErrNotFound
	}
	if media.Status != expected {
		return nil, ErrPreconditionFailed
	}

	media.Status = newStatus
	media.UpdatedAt = time.Now().UTC()
	cp := *media
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, mediaID string) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	media, exists := s.media[mediaID]
	if !exists {
		return nil, ErrNotFound
	}
	delete(s.media, mediaID)
	return media, nil
}

func (s *MemoryStore) ListProcessingBefore(_ context.Context, cutoff time.Time) ([]*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stuck []*models.Media
	for _, media := range s.media {
		if media.Status == core.MediaStatusProcessing && media.UpdatedAt.Before(cutoff) {
			cp := *media
			stuck = append(stuck, &cp)
		}
	}
	return stuck, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
