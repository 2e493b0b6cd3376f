package workers

import (
	"context"
	"fmt"
	"log/slog"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/models"
	"tldr/internal/pipeline"
	"tldr/internal/resize"
)

// ResizeWorker runs the one-stage image pipeline: claim PENDING, read the
// upload, scale it, store the result under the resized prefix and advance to
// COMPLETE.
type ResizeWorker struct {
	machine *pipeline.Machine
	blobs   blobstore.Store
	resizer resize.Resizer
}

// NewResizeWorker wires a resize worker from its dependencies.
func NewResizeWorker(machine *pipeline.Machine, blobs blobstore.Store, resizer resize.Resizer) *ResizeWorker {
	return &ResizeWorker{machine: machine, blobs: blobs, resizer: resizer}
}

// Process handles one resize event.
func (w *ResizeWorker) Process(ctx context.Context, payload models.EventPayload) error {
	if payload.MediaID == "" {
		slog.Info("Skipping resize event with missing mediaId.")
		return nil
	}
	logCtx := slog.With("mediaId", payload.MediaID)

	claim, err := w.machine.Claim(ctx, payload.MediaID, core.MediaStatusPending)
	if err != nil {
		return err
	}
	if claim.Outcome != pipeline.Claimed {
		return nil
	}
	media := claim.Media
	logCtx.Info("Claimed media for resizing.")

	data, err := w.blobs.Get(ctx, core.PrefixUploads, media.MediaID, media.Name)
	if err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to read upload blob", err)
	}

	resized, err := w.resizer.Resize(data)
	if err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to resize image", err)
	}
	logCtx.Info("Resized image.", "bytes", len(resized))

	if err := w.blobs.Put(ctx, core.PrefixResized, media.MediaID, core.ResizedImageName(media.Name), resized); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to store resized image", err)
	}

	if err := w.machine.Advance(ctx, media.MediaID, core.MediaStatusComplete); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to advance to COMPLETE", err)
	}

	logCtx.Info("Resize complete.")
	return nil
}

func (w *ResizeWorker) fail(ctx context.Context, logCtx *slog.Logger, mediaID, message string, err error) error {
	logCtx.Error(message, "error", err)
	w.machine.Fail(ctx, mediaID)
	return fmt.Errorf("%s: %w", message, err)
}
