package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/metastore"
	"tldr/internal/models"
)

// DeleteWorker removes a media item: the metadata record first, then the
// blobs under every stage prefix. Missing records and missing blobs are not
// errors; the delete may race any stage and must stay a clean no-op for
// whatever does not exist.
type DeleteWorker struct {
	store metastore.Store
	blobs blobstore.Store
}

// NewDeleteWorker wires a delete worker from its dependencies.
func NewDeleteWorker(store metastore.Store, blobs blobstore.Store) *DeleteWorker {
	return &DeleteWorker{store: store, blobs: blobs}
}

// Process handles one delete event.
func (w *DeleteWorker) Process(ctx context.Context, payload models.EventPayload) error {
	if payload.MediaID == "" {
		slog.Info("Skipping delete event with missing mediaId.")
		return nil
	}
	logCtx := slog.With("mediaId", payload.MediaID)

	media, err := w.store.Delete(ctx, payload.MediaID)
	if err != nil {
		if errors.Is(err, metastore.ErrNotFound) {
			logCtx.Info("Media not found, nothing to delete.")
			return nil
		}
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	logCtx.Info("Deleted media record.", "lastStatus", media.Status)

	// Sweep every prefix regardless of which stages actually ran; deleting a
	// non-existent key is success.
	targets := map[core.BlobPrefix]string{
		core.PrefixUploads:   media.Name,
		core.PrefixExtracts:  core.ExtractedTextName(media.Name),
		core.PrefixSummaries: core.SummaryName(media.Name),
		core.PrefixResized:   core.ResizedImageName(media.Name),
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for prefix, name := range targets {
		eg.Go(func() error {
			if err := w.blobs.Delete(gctx, prefix, payload.MediaID, name); err != nil {
				return fmt.Errorf("prefix %s: %w", prefix, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to delete blobs: %w", err)
	}

	logCtx.Info("Deleted media blobs.")
	return nil
}
