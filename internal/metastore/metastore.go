// Package metastore provides typed access to the per-item metadata records
// backing the processing pipeline. Its conditional status write is the single
// synchronization primitive the pipeline relies on: workers claim an item by
// compare-and-setting its status, so duplicate event deliveries lose the race
// instead of duplicating work.
package metastore

import (
	"context"
	"errors"
	"time"

	"tldr/internal/core"
	"tldr/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the media ID.
	ErrNotFound = errors.New("metastore: media not found")

	// ErrAlreadyExists is returned by Create when the media ID is occupied.
	ErrAlreadyExists = errors.New("metastore: media already exists")

	// ErrPreconditionFailed is returned by SetStatusConditionally when the
	// stored status does not match the expected one. Under at-least-once
	// delivery this signals that another worker already owns the stage.
	ErrPreconditionFailed = errors.New("metastore: status precondition failed")
)

// Store is the metadata store contract shared by the Firestore backend and
// the in-memory test double.
type Store interface {
	// Create writes a new record. The record's status must be set by the
	// caller (the upload path always writes PENDING).
	Create(ctx context.Context, media *models.Media) error

	// Get returns the record for the media ID or ErrNotFound.
	Get(ctx context.Context, mediaID string) (*models.Media, error)

	// SetStatus writes the status unconditionally. Used only for the terminal
	// ERROR transition, where last-writer-wins is acceptable.
	SetStatus(ctx context.Context, mediaID string, status core.MediaStatus) error

	// SetStatusConditionally atomically sets the status if and only if the
	// stored status equals expected. On success it returns the full record
	// (with the new status) so callers do not need a second read. Fails with
	// ErrPreconditionFailed on a status mismatch or ErrNotFound if the record
	// does not exist.
	SetStatusConditionally(ctx context.Context, mediaID string, newStatus, expected core.MediaStatus) (*models.Media, error)

	// Delete removes the record and returns its last-known attributes, which
	// the delete worker needs to locate blobs. Returns ErrNotFound if no
	// record existed.
	Delete(ctx context.Context, mediaID string) (*models.Media, error)

	// ListProcessingBefore returns records stuck in PROCESSING whose last
	// status write is older than the cutoff. Used by the reaper.
	ListProcessingBefore(ctx context.Context, cutoff time.Time) ([]*models.Media, error)

	// Close releases the underlying connection.
	Close() error
}
