package metastore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tldr/internal/core"
	"tldr/internal/models"
)

// FirestoreStore implements Store on top of a Firestore collection with one
// document per media item, keyed by media ID.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) docRef(mediaID string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(mediaID)
}

// Create writes a new record, failing with ErrAlreadyExists if the ID is
// occupied. Should not occur given unique ID generation, but the guard keeps
// the contract honest.
func (s *FirestoreStore) Create(ctx context.Context, media *models.Media) error {
	now := time.Now().UTC()
	media.CreatedAt = now
	media.UpdatedAt = now

	if _, err := s.docRef(media.MediaID).Create(ctx, media); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create media record: %w", err)
	}
	return nil
}

// Get returns the record for the media ID.
func (s *FirestoreStore) Get(ctx context.Context, mediaID string) (*models.Media, error) {
	snap, err := s.docRef(mediaID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media record: %w", err)
	}
	return snapToMedia(snap)
}

// SetStatus writes the status unconditionally.
func (s *FirestoreStore) SetStatus(ctx context.Context, mediaID string, newStatus core.MediaStatus) error {
	updates := []firestore.Update{
		{Path: "status", Value: newStatus},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if _, err := s.docRef(mediaID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set media status: %w", err)
	}
	return nil
}

// SetStatusConditionally performs the compare-and-set inside a Firestore
// transaction: read the record, compare the stored status, write the new one.
// Concurrent claimants for the same item serialize here; exactly one observes
// the expected status.
func (s *FirestoreStore) SetStatusConditionally(ctx context.Context, mediaID string, newStatus, expected core.MediaStatus) (*models.Media, error) {
	var media *models.Media

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(s.docRef(mediaID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		current, err := snapToMedia(snap)
		if err != nil {
			return err
		}
		if current.Status != expected {
			return ErrPreconditionFailed
		}

		now := time.Now().UTC()
		if err := tx.Update(snap.Ref, []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		current.Status = newStatus
		current.UpdatedAt = now
		media = current
		return nil
	})
	if err != nil {
		if err == ErrNotFound || err == ErrPreconditionFailed {
			return nil, err
		}
		return nil, fmt.Errorf("conditional status update failed: %w", err)
	}
	return media, nil
}

// Delete removes the record, returning its last-known attributes.
func (s *FirestoreStore) Delete(ctx context.Context, mediaID string) (*models.Media, error) {
	var media *models.Media

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(s.docRef(mediaID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		current, err := snapToMedia(snap)
		if err != nil {
			return err
		}
		if err := tx.Delete(snap.Ref); err != nil {
			return err
		}
		media = current
		return nil
	})
	if err != nil {
		if err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete media record: %w", err)
	}
	return media, nil
}

// ListProcessingBefore queries for items stuck in PROCESSING since before the
// cutoff.
func (s *FirestoreStore) ListProcessingBefore(ctx context.Context, cutoff time.Time) ([]*models.Media, error) {
	snaps, err := s.client.Collection(s.collection).
		Where("status", "==", core.MediaStatusProcessing).
		Where("updatedAt", "<", cutoff).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck media: %w", err)
	}

	media := make([]*models.Media, 0, len(snaps))
	for _, snap := range snaps {
		m, err := snapToMedia(snap)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func snapToMedia(snap *firestore.DocumentSnapshot) (*models.Media, error) {
	var media models.Media
	if err := snap.DataTo(&media); err != nil {
		return nil, fmt.Errorf("failed to decode media record %s: %w", snap.Ref.ID, err)
	}
	media.MediaID = snap.Ref.ID
	return &media, nil
}
