package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
)

// PubSubPublisher publishes envelopes to a Pub/Sub topic.
type PubSubPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubPublisher wraps an existing client and topic ID.
func NewPubSubPublisher(client *pubsub.Client, topicID string) *PubSubPublisher {
	return &PubSubPublisher{topic: client.Topic(topicID)}
}

// Publish marshals the envelope and blocks until the server acknowledges it.
func (p *PubSubPublisher) Publish(ctx context.Context, envelope Envelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", envelope.Type, err)
	}

	slog.Info("Published event.", "type", envelope.Type, "mediaId", envelope.Payload.MediaID, "messageId", id)
	return nil
}

// Stop flushes pending messages. Call on shutdown.
func (p *PubSubPublisher) Stop() {
	p.topic.Stop()
}
