package workers

import (
	"context"
	"fmt"
	"log/slog"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/events"
	"tldr/internal/extract"
	"tldr/internal/models"
	"tldr/internal/pipeline"
)

// ExtractWorker runs the text-extraction stage: claim PENDING, read the
// upload, extract text, store it under the extracts prefix, advance to
// EXTRACTED and publish the summarization event.
type ExtractWorker struct {
	machine   *pipeline.Machine
	blobs     blobstore.Store
	publisher events.Publisher
	extractor extract.Extractor
}

// NewExtractWorker wires an extraction worker from its dependencies.
func NewExtractWorker(machine *pipeline.Machine, blobs blobstore.Store, publisher events.Publisher, extractor extract.Extractor) *ExtractWorker {
	return &ExtractWorker{machine: machine, blobs: blobs, publisher: publisher, extractor: extractor}
}

// Process handles one begin-extraction event. Losing the claim or finding no
// record terminates the invocation successfully with no side effects.
func (w *ExtractWorker) Process(ctx context.Context, payload models.EventPayload) error {
	if payload.MediaID == "" {
		slog.Info("Skipping extract event with missing mediaId.")
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
	logCtx.Info("Claimed media for extraction.")

	data, err := w.blobs.Get(ctx, core.PrefixUploads, media.MediaID, media.Name)
	if err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to read upload blob", err)
	}

	text, err := w.extractor.ExtractText(data)
	if err != nil {
		// Corrupt input is terminal for the item, not retryable.
		return w.fail(ctx, logCtx, media.MediaID, "failed to extract text", err)
	}
	logCtx.Info("Extracted text from PDF.", "chars", len(text))

	if err := w.blobs.Put(ctx, core.PrefixExtracts, media.MediaID, core.ExtractedTextName(media.Name), []byte(text)); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to store extracted text", err)
	}

	if err := w.machine.Advance(ctx, media.MediaID, core.MediaStatusExtracted); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to advance to EXTRACTED", err)
	}

	style := payload.Style
	if style == "" {
		style = media.Style
	}
	envelope := events.Envelope{
		Type: core.EventTypeSummarizeText,
		Payload: models.EventPayload{
			MediaID:   media.MediaID,
			MediaName: media.Name,
			Style:     style,
		},
	}
	if err := w.publisher.Publish(ctx, envelope); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to publish summarization event", err)
	}

	logCtx.Info("Text extraction complete.")
	return nil
}

func (w *ExtractWorker) fail(ctx context.Context, logCtx *slog.Logger, mediaID, message string, err error) error {
	logCtx.Error(message, "error", err)
	w.machine.Fail(ctx, mediaID)
	return fmt.Errorf("%s: %w", message, err)
}
