package workers

import (
	"context"
	"fmt"
	"log/slog"

	"tldr/internal/blobstore"
	"tldr/internal/events"
	"tldr/internal/extract"
	"tldr/internal/gcp"
	"tldr/internal/metastore"
	"tldr/internal/pipeline"
	"tldr/internal/resize"
	"tldr/internal/summarize"
)

// ServiceConfig holds all configuration for the event-processing service.
type ServiceConfig struct {
	ProjectID       string
	MediaBucket     string
	CollectionName  string
	TopicID         string
	VertexAIRegion  string
	SummarizerModel string
}

func loadServiceConfig() (*ServiceConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	mediaBucket := gcp.GetEnv("MEDIA_BUCKET", "")
	if mediaBucket == "" {
		return nil, fmt.Errorf("MEDIA_BUCKET environment variable must be set")
	}

	return &ServiceConfig{
		ProjectID:       projectID,
		MediaBucket:     mediaBucket,
		CollectionName:  gcp.GetEnv("FIRESTORE_COLLECTION", "media"),
		TopicID:         gcp.GetEnv("MEDIA_TOPIC_ID", "media-management"),
		VertexAIRegion:  gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		SummarizerModel: gcp.GetEnv("SUMMARIZER_MODEL", "gemini-1.5-flash"),
	}, nil
}

// NewDispatcherService builds the dispatcher with real GCP-backed
// dependencies. Construction fails fast on missing configuration; per-item
// failures are handled downstream by the workers.
func NewDispatcherService(ctx context.Context) (*Dispatcher, error) {
	config, err := loadServiceConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}
	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, err
	}
	pubsubClient, err := gcp.NewPubSubClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion, config.SummarizerModel)
	if err != nil {
		return nil, err
	}

	store := metastore.NewFirestoreStore(firestoreClient, config.CollectionName)
	blobs := blobstore.NewGCSStore(storageClient, config.MediaBucket)
	publisher := events.NewPubSubPublisher(pubsubClient, config.TopicID)
	machine := pipeline.NewMachine(store)

	dispatcher := NewDispatcher(
		NewExtractWorker(machine, blobs, publisher, extract.NewPDFExtractor()),
		NewSummarizeWorker(machine, blobs, summarize.NewVertexSummarizer(vertexClient)),
		NewResizeWorker(machine, blobs, resize.NewImageResizer()),
		NewDeleteWorker(store, blobs),
	)

	slog.Info("Media event dispatcher initialized.", "collection", config.CollectionName, "bucket", config.MediaBucket)
	return dispatcher, nil
}
