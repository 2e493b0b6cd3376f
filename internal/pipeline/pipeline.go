// Package pipeline implements the status state machine that coordinates
// stage workers. Every stage starts with a claim: an atomic conditional
// transition into PROCESSING that establishes single ownership of the stage's
// work for one item. Duplicate deliveries and racing workers lose the claim
// and must perform no side effects.
//
// Legal transitions:
//
//	PENDING    --(claim: extract/resize)--> PROCESSING
//	EXTRACTED  --(claim: summarize)-------> PROCESSING
//	PROCESSING --(stage ok)---------------> EXTRACTED | SUMMARIZED | COMPLETE
//	any state  --(unrecoverable failure)--> ERROR
package pipeline

import "tldr/internal/core"

type statusTransition struct {
	from core.MediaStatus
	to   core.MediaStatus
}

var legalTransitions = []statusTransition{
	{from: core.MediaStatusPending, to: core.MediaStatusProcessing},
	{from: core.MediaStatusExtracted, to: core.MediaStatusProcessing},
	{from: core.MediaStatusProcessing, to: core.MediaStatusExtracted},
	{from: core.MediaStatusProcessing, to: core.MediaStatusSummarized},
	{from: core.MediaStatusProcessing, to: core.MediaStatusComplete},
}

var transitionSet = func() map[statusTransition]struct{} {
	set := make(map[statusTransition]struct{}, len(legalTransitions))
	for _, t := range legalTransitions {
		set[t] = struct{}{}
	}
	return set
}()

// CanTransition reports whether the status graph permits moving from one
// status to another. ERROR is reachable from every state.
func CanTransition(from, to core.MediaStatus) bool {
	if to == core.MediaStatusError {
		return true
	}
	_, ok := transitionSet[statusTransition{from: from, to: to}]
	return ok
}

// IsTerminal reports whether no further pipeline progress is expected from
// the status.
func IsTerminal(status core.MediaStatus) bool {
	switch status {
	case core.MediaStatusSummarized, core.MediaStatusComplete, core.MediaStatusError:
		return true
	}
	return false
}
