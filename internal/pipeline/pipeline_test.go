package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tldr/internal/core"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from core.MediaStatus
		to   core.MediaStatus
		want bool
	}{
		{"claim for extraction", core.MediaStatusPending, core.MediaStatusProcessing, true},
		{"claim for summarization", core.MediaStatusExtracted, core.MediaStatusProcessing, true},
		{"extraction done", core.MediaStatusProcessing, core.MediaStatusExtracted, true},
		{"summarization done", core.MediaStatusProcessing, core.MediaStatusSummarized, true},
		{"resize done", core.MediaStatusProcessing, core.MediaStatusComplete, true},
		{"error from pending", core.MediaStatusPending, core.MediaStatusError, true},
		{"error from processing", core.MediaStatusProcessing, core.MediaStatusError, true},
		{"error from terminal", core.MediaStatusSummarized, core.MediaStatusError, true},
		{"no regression to pending", core.MediaStatusExtracted, core.MediaStatusPending, false},
		{"no skip to summarized", core.MediaStatusPending, core.MediaStatusSummarized, false},
		{"no claim from summarized", core.MediaStatusSummarized, core.MediaStatusProcessing, false},
		{"no claim from error", core.MediaStatusError, core.MediaStatusProcessing, false},
		{"no backward from processing", core.MediaStatusProcessing, core.MediaStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(core.MediaStatusSummarized))
	assert.True(t, IsTerminal(core.MediaStatusComplete))
	assert.True(t, IsTerminal(core.MediaStatusError))
	assert.False(t, IsTerminal(core.MediaStatusPending))
	assert.False(t, IsTerminal(core.MediaStatusProcessing))
	assert.False(t, IsTerminal(core.MediaStatusExtracted))
}
