package models

import "tldr/internal/core"

// EventPayload carries the per-item parameters of a pipeline event. Events
// are the only trigger for stage execution; the payload identifies the item
// and threads the stage parameters through.
type EventPayload struct {
	MediaID   string            `json:"mediaId"`
	MediaName string            `json:"mediaName,omitempty"`
	Style     core.SummaryStyle `json:"style,omitempty"`
}
