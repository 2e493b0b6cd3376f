package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tldr/internal/core"
	"tldr/internal/metastore"
	"tldr/internal/models"
)

func newPendingMedia(t *testing.T, store metastore.Store, mediaID string) *models.Media {
	t.Helper()
	media := &models.Media{
		MediaID:  mediaID,
		Name:     "report.pdf",
		MimeType: core.MimeTypePDF,
		Size:     1024,
		Status:   core.MediaStatusPending,
	}
	require.NoError(t, store.Create(context.Background(), media))
	return media
}

func TestClaimOutcomes(t *testing.T) {
	ctx := context.Background()
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)
	newPendingMedia(t, store, "media-1")

	claim, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
	require.NoError(t, err)
	require.Equal(t, Claimed, claim.Outcome)
	require.NotNil(t, claim.Media)
	assert.Equal(t, core.MediaStatusProcessing, claim.Media.Status)
	assert.Equal(t, "report.pdf", claim.Media.Name)

	// A duplicate delivery loses the race: status is already PROCESSING.
	dup, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
	require.NoError(t, err)
	assert.Equal(t, LostRace, dup.Outcome)
	assert.Nil(t, dup.Media)

	missing, err := machine.Claim(ctx, "no-such-media", core.MediaStatusPending)
	require.NoError(t, err)
	assert.Equal(t, NotFound, missing.Outcome)
}

func TestClaimRejectsIllegalPriorState(t *testing.T) {
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)

	_, err := machine.Claim(context.Background(), "media-1", core.MediaStatusSummarized)
	assert.Error(t, err)
}

// Exactly one of any number of concurrent claim attempts with the same
// expected prior state may succeed.
func TestSingleClaimProperty(t *testing.T) {
	ctx := context.Background()
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)
	newPendingMedia(t, store, "media-1")

	const attempts = 32
	var wg sync.WaitGroup
	outcomes := make([]ClaimOutcome, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claim, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
			require.NoError(t, err)
			outcomes[i] = claim.Outcome
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, outcome := range outcomes {
		switch outcome {
		case Claimed:
			won++
		case LostRace:
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)

	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusProcessing, media.Status)
}

func TestAdvanceAndFail(t *testing.T) {
	ctx := context.Background()
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)
	newPendingMedia(t, store, "media-1")

	_, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
	require.NoError(t, err)

	require.NoError(t, machine.Advance(ctx, "media-1", core.MediaStatusExtracted))
	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusExtracted, media.Status)

	// Illegal advance targets are rejected before touching the store.
	assert.Error(t, machine.Advance(ctx, "media-1", core.MediaStatusPending))

	machine.Fail(ctx, "media-1")
	media, err = store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusError, media.Status)
}

func TestAdvanceAfterConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)
	newPendingMedia(t, store, "media-1")

	_, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
	require.NoError(t, err)

	_, err = store.Delete(ctx, "media-1")
	require.NoError(t, err)

	// A delete racing the stage is an accepted outcome, not an error.
	assert.NoError(t, machine.Advance(ctx, "media-1", core.MediaStatusExtracted))
}

// A slow worker whose item was already forced to ERROR must not resurrect it
// with a terminal stage status.
func TestAdvanceAfterReap(t *testing.T) {
	ctx := context.Background()
	store := metastore.NewMemoryStore()
	machine := NewMachine(store)
	newPendingMedia(t, store, "media-1")

	_, err := machine.Claim(ctx, "media-1", core.MediaStatusPending)
	require.NoError(t, err)

	require.NoError(t, store.SetStatus(ctx, "media-1", core.MediaStatusError))

	require.NoError(t, machine.Advance(ctx, "media-1", core.MediaStatusExtracted))
	media, err := store.Get(ctx, "media-1")
	require.NoError(t, err)
	assert.Equal(t, core.MediaStatusError, media.Status)
}
