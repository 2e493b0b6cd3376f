package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/metastore"
	"tldr/internal/models"
)

func newDeleteFixture() (*metastore.MemoryStore, *blobstore.MemoryStore, *DeleteWorker) {
	store := metastore.NewMemoryStore()
	blobs := blobstore.NewMemoryStore()
	return store, blobs, NewDeleteWorker(store, blobs)
}

func TestDeleteWorkerRemovesEverything(t *testing.T) {
	ctx := context.Background()
	store, blobs, worker := newDeleteFixture()

	media := &models.Media{
		MediaID:  "media-1",
		Name:     "report.pdf",
		MimeType: core.MimeTypePDF,
		Status:   core.MediaStatusSummarized,
	}
	require.NoError(t, store.Create(ctx, media))
	require.NoError(t, blobs.Put(ctx, core.PrefixUploads, "media-1", "report.pdf", []byte("pdf")))
	require.NoError(t, blobs.Put(ctx, core.PrefixExtracts, "media-1", "report.extracted.txt", []byte("text")))
	require.NoError(t, blobs.Put(ctx, core.PrefixSummaries, "media-1", "report.summary.txt", []byte("summary")))

	err := worker.Process(ctx, models.EventPayload{MediaID: "media-1"})
	require.NoError(t, err)

	_, err = store.Get(ctx, "media-1")
	assert.ErrorIs(t, err, metastore.ErrNotFound)
	assert.Equal(t, 0, blobs.Len())
}

// An item deleted while still PENDING has only the upload blob; sweeping the
// other prefixes must not fail.
func TestDeleteWorkerMidPipeline(t *testing.T) {
	ctx := context.Background()
	store, blobs, worker := newDeleteFixture()

	media := &models.Media{
		MediaID:  "media-1",
		Name:     "report.pdf",
		MimeType: core.MimeTypePDF,
		Status:   core.MediaStatusPending,
	}
	require.NoError(t, store.Create(ctx, media))
	require.NoError(t, blobs.Put(ctx, core.PrefixUploads, "media-1", "report.pdf", []byte("pdf")))

	err := worker.Process(ctx, models.EventPayload{MediaID: "media-1"})
	require.NoError(t, err)

	_, err = store.Get(ctx, "media-1")
	assert.ErrorIs(t, err, metastore.ErrNotFound)
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteWorkerMissingRecord(t *testing.T) {
	_, _, worker := newDeleteFixture()

	err := worker.Process(context.Background(), models.EventPayload{MediaID: "ghost"})
	assert.NoError(t, err)
}

func TestDeleteWorkerRedelivery(t *testing.T) {
	ctx := context.Background()
	store, blobs, worker := newDeleteFixture()

	media := &models.Media{
		MediaID: "media-1",
		Name:    "photo.png",
		Status:  core.MediaStatusComplete,
	}
	require.NoError(t, store.Create(ctx, media))
	require.NoError(t, blobs.Put(ctx, core.PrefixUploads, "media-1", "photo.png", []byte("png")))
	require.NoError(t, blobs.Put(ctx, core.PrefixResized, "media-1", "photo.jpg", []byte("jpg")))

	payload := models.EventPayload{MediaID: "media-1"}
	require.NoError(t, worker.Process(ctx, payload))
	// Second delivery finds nothing and succeeds anyway.
	require.NoError(t, worker.Process(ctx, payload))
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteWorkerEmptyMediaID(t *testing.T) {
	_, _, worker := newDeleteFixture()

	err := worker.Process(context.Background(), models.EventPayload{})
	assert.NoError(t, err)
}
