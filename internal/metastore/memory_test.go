package metastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tldr/internal/core"
	"tldr/internal/models"
)

func newStoredMedia(t *testing.T, store *MemoryStore, mediaID string, status core.MediaStatus) {
	t.Helper()
	media := &models.Media{
		MediaID:  mediaID,
		Name:     "report.pdf",
		MimeType: core.MimeTypePDF,
		Size:     2048,
		Status:   status,
	}
	require.NoError(t, store.Create(context.Background(), media))
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusPending)

	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", media.Name)
	assert.Equal(t, core.MediaStatusPending, media.Status)
	assert.False(t, media.CreatedAt.IsZero())
	assert.False(t, media.UpdatedAt.IsZero())

	_, err = store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCreateDuplicate(t *testing.T) {
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusPending)

	err := store.Create(context.Background(), &models.Media{MediaID: "media-1"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStoreSetStatusConditionally(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusPending)

	media, err := store.SetStatusConditionally(ctx, "media-1", core.MediaStatusProcessing, core.MediaStatusPending)
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusProcessing, media.Status)
	// The returned record carries the full attributes, not just the status.
	assert.Equal(t, "report.pdf", media.Name)
	assert.Equal(t, int64(2048), media.Size)

	// The precondition no longer holds after the first write.
	_, err = store.SetStatusConditionally(ctx, "media-1", core.MediaStatusProcessing, core.MediaStatusPending)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = store.SetStatusConditionally(ctx, "ghost", core.MediaStatusProcessing, core.MediaStatusPending)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusProcessing)

	require.NoError(t, store.SetStatus(ctx, "media-1", core.MediaStatusExtracted))
	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusExtracted, media.Status)

	assert.ErrorIs(t, store.SetStatus(ctx, "ghost", core.MediaStatusError), ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusSummarized)

	media, err := store.Delete(ctx, "media-1")
	require.NoError(t, err)
	// Delete returns the last attributes so callers can clean up blobs.
	assert.Equal(t, "report.pdf", media.Name)
	assert.Equal(t, core.MediaStatusSummarized, media.Status)

	_, err = store.Get(ctx, "media-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Delete(ctx, "media-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListProcessingBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "stuck", core.MediaStatusProcessing)
	newStoredMedia(t, store, "pending", core.MediaStatusPending)
	newStoredMedia(t, store, "done", core.MediaStatusSummarized)

	stuck, err := store.ListProcessingBefore(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, "stuck", stuck[0].MediaID)

	// A cutoff in the past matches nothing that was just written.
	none, err := store.ListProcessingBefore(ctx, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newStoredMedia(t, store, "media-1", core.MediaStatusPending)

	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	media.Status = core.MediaStatusError

	fresh, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusPending, fresh.Status)
}
