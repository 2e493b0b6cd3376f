// Package blobstore stores binary payloads under a stage-scoped key scheme.
// Keys are "{prefix}/{mediaId}/{name}"; each pipeline stage writes under its
// own prefix and never overwrites an earlier stage's output.
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"tldr/internal/core"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("blobstore: object not found")

// Store is the blob store contract shared by the Cloud Storage backend and
// the in-memory test double.
type Store interface {
	// Put writes a payload. Blobs are immutable once written.
	Put(ctx context.Context, prefix core.BlobPrefix, mediaID, name string, data []byte) error

	// Get reads a payload or returns ErrNotFound.
	Get(ctx context.Context, prefix core.BlobPrefix, mediaID, name string) ([]byte, error)

	// Delete removes a payload. Deleting a non-existent key is success, never
	// an error: the delete worker sweeps every prefix regardless of which
	// stages actually ran.
	Delete(ctx context.Context, prefix core.BlobPrefix, mediaID, name string) error

	// Close releases the underlying connection.
	Close() error
}

// ObjectKey builds the storage key for a media blob.
func ObjectKey(prefix core.BlobPrefix, mediaID, name string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, mediaID, name)
}
