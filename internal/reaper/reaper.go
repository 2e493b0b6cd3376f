// Package reaper recovers items stranded in PROCESSING. A worker that dies
// after claiming a stage leaves its item stuck forever, since no event will
// legally claim it again; the reaper forces such items to ERROR once their
// last status write is older than a threshold.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tldr/internal/core"
	"tldr/internal/metastore"
)

// Reaper scans for stuck PROCESSING items and fails them.
type Reaper struct {
	store     metastore.Store
	threshold time.Duration
}

// New creates a reaper that considers items stuck after the given threshold.
func New(store metastore.Store, threshold time.Duration) *Reaper {
	return &Reaper{store: store, threshold: threshold}
}

// Run performs one sweep and returns the number of items failed. The
// transition is conditional on the item still being PROCESSING, so an item
// that finished between the scan and the write is left alone.
func (r *Reaper) Run(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-r.threshold)

	stuck, err := r.store.ListProcessingBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stuck media: %w", err)
	}

	reaped := 0
	for _, media := range stuck {
		_, err := r.store.SetStatusConditionally(ctx, media.MediaID, core.MediaStatusError, core.MediaStatusProcessing)
		if err != nil {
			if errors.Is(err, metastore.ErrPreconditionFailed) || errors.Is(err, metastore.ErrNotFound) {
				// The item moved on (or was deleted) since the scan.
				continue
			}
			return reaped, fmt.Errorf("failed to reap %s: %w", media.MediaID, err)
		}
		slog.Warn("Reaped stuck media.", "mediaId", media.MediaID, "stuckSince", media.UpdatedAt)
		reaped++
	}
	return reaped, nil
}
