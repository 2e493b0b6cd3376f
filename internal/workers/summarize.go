package workers

import (
	"context"
	"fmt"
	"log/slog"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/models"
	"tldr/internal/pipeline"
	"tldr/internal/summarize"
)

// SummarizeWorker runs the summarization stage: claim EXTRACTED, read the
// extracted text, call the summarization model, store the summary and advance
// to SUMMARIZED.
type SummarizeWorker struct {
	machine    *pipeline.Machine
	blobs      blobstore.Store
	summarizer summarize.Summarizer
}

// NewSummarizeWorker wires a summarization worker from its dependencies.
func NewSummarizeWorker(machine *pipeline.Machine, blobs blobstore.Store, summarizer summarize.Summarizer) *SummarizeWorker {
	return &SummarizeWorker{machine: machine, blobs: blobs, summarizer: summarizer}
}

// Process handles one begin-summarization event. Summarization is only
// allowed from EXTRACTED; anything else means extraction failed, is still in
// flight, or another worker got here first.
func (w *SummarizeWorker) Process(ctx context.Context, payload models.EventPayload) error {
	if payload.MediaID == "" {
		slog.Info("Skipping summarize event with missing mediaId.")
		return nil
	}
	logCtx := slog.With("mediaId", payload.MediaID)

	claim, err := w.machine.Claim(ctx, payload.MediaID, core.MediaStatusExtracted)
	if err != nil {
		return err
	}
	if claim.Outcome != pipeline.Claimed {
		return nil
	}
	media := claim.Media

	style := payload.Style
	if style == "" {
		style = media.Style
	}
	style = core.ParseStyle(string(style))
	logCtx.Info("Claimed media for summarization.", "style", style)

	data, err := w.blobs.Get(ctx, core.PrefixExtracts, media.MediaID, core.ExtractedTextName(media.Name))
	if err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to read extracted text", err)
	}
	logCtx.Info("Retrieved extracted text.", "chars", len(data))

	summary, err := w.summarizer.Summarize(ctx, string(data), style)
	if err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to generate summary", err)
	}
	logCtx.Info("Generated summary.", "chars", len(summary))

	if err := w.blobs.Put(ctx, core.PrefixSummaries, media.MediaID, core.SummaryName(media.Name), []byte(summary)); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to store summary", err)
	}

	if err := w.machine.Advance(ctx, media.MediaID, core.MediaStatusSummarized); err != nil {
		return w.fail(ctx, logCtx, media.MediaID, "failed to advance to SUMMARIZED", err)
	}

	logCtx.Info("Summarization complete.")
	return nil
}

func (w *SummarizeWorker) fail(ctx context.Context, logCtx *slog.Logger, mediaID, message string, err error) error {
	logCtx.Error(message, "error", err)
	w.machine.Fail(ctx, mediaID)
	return fmt.Errorf("%s: %w", message, err)
}
