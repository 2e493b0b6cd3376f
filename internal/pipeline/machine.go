package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tldr/internal/core"
	"tldr/internal/metastore"
	"tldr/internal/models"
)

// ClaimOutcome is the result of a claim attempt. Losing a race and finding no
// record are expected under at-least-once delivery, so they are modeled as
// outcomes rather than errors; callers branch on them without any error
// machinery.
type ClaimOutcome int

const (
	// Claimed means this invocation owns the stage's work for the item.
	Claimed ClaimOutcome = iota
	// LostRace means another worker already entered or passed the stage.
	LostRace
	// NotFound means the record does not exist (deleted or never created).
	NotFound
)

// Claim is the result of a claim attempt. Media is populated only when
// Outcome is Claimed, so the winner learns the record's attributes without a
// second read.
type Claim struct {
	Outcome ClaimOutcome
	Media   *models.Media
}

// Machine drives status transitions for stage workers. It holds no state of
// its own; all synchronization lives in the metadata store's conditional
// write.
type Machine struct {
	store metastore.Store
}

// NewMachine creates a state machine over the given metadata store.
func NewMachine(store metastore.Store) *Machine {
	return &Machine{store: store}
}

// Claim atomically transitions the item from the stage's required prior
// status into PROCESSING. Exactly one of any number of concurrent claim
// attempts with the same prior status succeeds; the rest observe LostRace.
// A worker that does not win the claim must perform no further side effects.
func (m *Machine) Claim(ctx context.Context, mediaID string, from core.MediaStatus) (Claim, error) {
	if !CanTransition(from, core.MediaStatusProcessing) {
		return Claim{}, fmt.Errorf("illegal claim from status %s", from)
	}

	media, err := m.store.SetStatusConditionally(ctx, mediaID, core.MediaStatusProcessing, from)
	if err != nil {
		switch {
		case errors.Is(err, metastore.ErrPreconditionFailed):
			slog.Info("Lost claim, another worker owns this stage.", "mediaId", mediaID, "expectedStatus", from)
			return Claim{Outcome: LostRace}, nil
		case errors.Is(err, metastore.ErrNotFound):
			slog.Info("Media not found during claim, skipping.", "mediaId", mediaID)
			return Claim{Outcome: NotFound}, nil
		default:
			return Claim{}, fmt.Errorf("claim for %s failed: %w", mediaID, err)
		}
	}
	return Claim{Outcome: Claimed, Media: media}, nil
}

// Advance moves a claimed item from PROCESSING to the stage's terminal
// status. The write is conditional on the item still being PROCESSING: a
// record deleted mid-stage or forced to ERROR by the reaper keeps its state,
// and the late writer stops quietly. Both races are accepted outcomes, not
// errors.
func (m *Machine) Advance(ctx context.Context, mediaID string, to core.MediaStatus) error {
	if !CanTransition(core.MediaStatusProcessing, to) {
		return fmt.Errorf("illegal advance to status %s", to)
	}

	if _, err := m.store.SetStatusConditionally(ctx, mediaID, to, core.MediaStatusProcessing); err != nil {
		switch {
		case errors.Is(err, metastore.ErrNotFound):
			slog.Info("Media deleted before stage completion.", "mediaId", mediaID, "status", to)
			return nil
		case errors.Is(err, metastore.ErrPreconditionFailed):
			slog.Warn("Media left PROCESSING before stage completion, keeping its status.", "mediaId", mediaID, "status", to)
			return nil
		default:
			return fmt.Errorf("failed to advance %s to %s: %w", mediaID, to, err)
		}
	}
	return nil
}

// Fail marks the item ERROR after a stage failure. Last-writer-wins is
// acceptable here because no further legitimate progress is expected. A
// missing record is ignored for the same reason as in Advance.
func (m *Machine) Fail(ctx context.Context, mediaID string) {
	if err := m.store.SetStatus(ctx, mediaID, core.MediaStatusError); err != nil && !errors.Is(err, metastore.ErrNotFound) {
		slog.Error("CRITICAL: Failed to set ERROR status after a processing failure.", "mediaId", mediaID, "error", err)
	}
}
