// Package events defines the envelopes published on the media-management
// topic and the publisher used to emit them. Delivery is at-least-once;
// consumers must treat redelivery as normal.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"tldr/internal/models"
)

// Envelope is the wire format of a pipeline event: a type tag plus the
// per-item payload.
type Envelope struct {
	Type    string              `json:"type"`
	Payload models.EventPayload `json:"payload"`
}

// Publisher publishes event envelopes to the media-management topic.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
}

// MessagePublishedData is the CloudEvent data schema for a Pub/Sub-triggered
// function invocation.
type MessagePublishedData struct {
	Message PubSubMessage `json:"message"`
}

// PubSubMessage is the Pub/Sub message embedded in a CloudEvent. Data is
// base64 in the JSON and decoded transparently by encoding/json.
type PubSubMessage struct {
	Data []byte `json:"data"`
}

// DecodePubSubEvent unwraps the envelope from a Pub/Sub CloudEvent.
func DecodePubSubEvent(e cloudevents.Event) (Envelope, error) {
	var msg MessagePublishedData
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal Pub/Sub event data: %w", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(msg.Message.Data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	return envelope, nil
}
