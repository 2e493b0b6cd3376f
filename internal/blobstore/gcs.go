package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"tldr/internal/core"
)

// GCSStore implements Store on top of a single Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore wraps an existing storage client and bucket name.
func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) object(prefix core.BlobPrefix, mediaID, name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(ObjectKey(prefix, mediaID, name))
}

// Put writes the payload, retrying transient failures with backoff. Writes
// are conditional on the object not existing; a precondition failure means an
// earlier attempt (or a duplicate delivery) already wrote it, which is fine
// in an idempotent pipeline.
func (s *GCSStore) Put(ctx context.Context, prefix core.BlobPrefix, mediaID, name string, data []byte) error {
	const maxRetries = 4
	backoff := 1 * time.Second
	key := ObjectKey(prefix, mediaID, name)
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
			defer cancel()

			writer := s.object(prefix, mediaID, name).
				If(storage.Conditions{DoesNotExist: true}).
				NewWriter(writeCtx)

			if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
				_ = writer.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("failed to finalize GCS write: %w", err)
			}
			return nil
		}()

		if err == nil {
			return nil
		}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			slog.Info("Blob already exists, skipping write.", "key", key)
			return nil
		}

		lastErr = err
		slog.Warn("Blob write failed, will retry.",
			"key", key,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("write for %s failed after all retries: %w", key, lastErr)
}

// Get reads the full payload for the key.
func (s *GCSStore) Get(ctx context.Context, prefix core.BlobPrefix, mediaID, name string) ([]byte, error) {
	reader, err := s.object(prefix, mediaID, name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open reader for %s: %w", ObjectKey(prefix, mediaID, name), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ObjectKey(prefix, mediaID, name), err)
	}
	return data, nil
}

// Delete removes the object; a missing object is success.
func (s *GCSStore) Delete(ctx context.Context, prefix core.BlobPrefix, mediaID, name string) error {
	err := s.object(prefix, mediaID, name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ObjectKey(prefix, mediaID, name), err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
