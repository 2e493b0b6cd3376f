package events

import (
	"context"
	"sync"
)

// MemoryPublisher captures published envelopes for tests.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []Envelope
}

// NewMemoryPublisher creates an empty capture publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, envelope Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, envelope)
	return nil
}

// Published returns a copy of everything published so far.
func (p *MemoryPublisher) Published() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]Envelope, len(p.published))
	copy(cp, p.published)
	return cp
}
