package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"tldr/internal/events"
	"tldr/internal/workers"
)

var (
	dispatcherInstance *workers.Dispatcher
	once               sync.Once
	initErr            error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function. The framework routes Pub/Sub
	// deliveries from the media-management topic here.
	functions.CloudEvent("ManageMedia", manageMedia)
}

// main is required by the Go Functions Framework.
func main() {}

// manageMedia is the Cloud Function entry point for pipeline events.
func manageMedia(ctx context.Context, e cloudevents.Event) error {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		dispatcherInstance, initErr = workers.NewDispatcherService(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	envelope, err := events.DecodePubSubEvent(e)
	if err != nil {
		// Malformed envelopes can never succeed on redelivery; log and drop.
		slog.Error("Failed to decode event, dropping.", "error", err, "data", string(e.Data()))
		return nil
	}

	// Returning an error marks the invocation failed, so the bus's
	// redelivery/dead-letter policy applies.
	return dispatcherInstance.Dispatch(ctx, envelope)
}
