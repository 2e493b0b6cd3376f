package workers

import (
	"context"
	"log/slog"

	"tldr/internal/core"
	"tldr/internal/events"
)

// Dispatcher routes incoming event envelopes to the matching stage worker.
// Unknown types are skipped, not failed, so newer event schemas can roll out
// ahead of this consumer.
type Dispatcher struct {
	extract   *ExtractWorker
	summarize *SummarizeWorker
	resize    *ResizeWorker
	delete    *DeleteWorker
}

// NewDispatcher wires a dispatcher over the four stage workers.
func NewDispatcher(extract *ExtractWorker, summarize *SummarizeWorker, resize *ResizeWorker, delete *DeleteWorker) *Dispatcher {
	return &Dispatcher{extract: extract, summarize: summarize, resize: resize, delete: delete}
}

// Dispatch handles one envelope. Each envelope is independently processable;
// batch delivery is just repeated Dispatch calls.
func (d *Dispatcher) Dispatch(ctx context.Context, envelope events.Envelope) error {
	switch envelope.Type {
	case core.EventTypeSummarize:
		return d.extract.Process(ctx, envelope.Payload)
	case core.EventTypeSummarizeText:
		return d.summarize.Process(ctx, envelope.Payload)
	case core.EventTypeResize:
		return d.resize.Process(ctx, envelope.Payload)
	case core.EventTypeDelete:
		return d.delete.Process(ctx, envelope.Payload)
	default:
		slog.Info("Skipping event with unsupported type.", "type", envelope.Type)
		return nil
	}
}
