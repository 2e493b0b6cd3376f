// Package api implements the client-facing HTTP surface: upload, status,
// summary download and delete. The upload path is the only writer that
// creates metadata records; all later mutation happens in the stage workers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"tldr/internal/blobstore"
	"tldr/internal/core"
	"tldr/internal/events"
	"tldr/internal/extract"
	"tldr/internal/gcp"
	"tldr/internal/metastore"
	"tldr/internal/models"
)

// Service holds the dependencies for the media HTTP API.
type Service struct {
	store     metastore.Store
	blobs     blobstore.Store
	publisher events.Publisher
}

// NewService wires an API service from its dependencies.
func NewService(store metastore.Store, blobs blobstore.Store, publisher events.Publisher) *Service {
	return &Service{store: store, blobs: blobs, publisher: publisher}
}

// ServiceConfig holds all configuration for the API service.
type ServiceConfig struct {
	ProjectID      string
	MediaBucket    string
	CollectionName string
	TopicID        string
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
		ProjectID:      projectID,
		MediaBucket:    mediaBucket,
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "media"),
		TopicID:        gcp.GetEnv("MEDIA_TOPIC_ID", "media-management"),
	}, nil
}

// NewServiceFromEnv builds the API service with real GCP-backed dependencies.
func NewServiceFromEnv(ctx context.Context) (*Service, error) {
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

	slog.Info("Media API initialized.", "collection", config.CollectionName, "bucket", config.MediaBucket)
	return NewService(
		metastore.NewFirestoreStore(firestoreClient, config.CollectionName),
		blobstore.NewGCSStore(storageClient, config.MediaBucket),
		events.NewPubSubPublisher(pubsubClient, config.TopicID),
	), nil
}

// Handler returns the HTTP mux for the media API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /media/upload", s.handleUpload)
	mux.HandleFunc("GET /media/{id}", s.handleGet)
	mux.HandleFunc("GET /media/{id}/download", s.handleDownload)
	mux.HandleFunc("DELETE /media/{id}", s.handleDelete)
	return mux
}

// handleUpload accepts one file per request, stores it under the uploads
// prefix, creates the PENDING record and publishes the first pipeline event.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, core.MaxFileSize+1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a single file field named 'file' is required")
		return
	}
	defer file.Close()

	if header.Size > core.MaxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the maximum upload size")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !core.IsAllowedMimeType(mimeType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported media type %q", mimeType))
		return
	}
	if mimeType == core.MimeTypePDF {
		if err := extract.ValidatePDF(data); err != nil {
			writeError(w, http.StatusBadRequest, "uploaded file is not a valid PDF")
			return
		}
	}

	style := core.ParseStyle(r.FormValue("style"))
	mediaID := uuid.NewString()
	logCtx := slog.With("mediaId", mediaID, "name", header.Filename, "mimeType", mimeType)

	if err := s.blobs.Put(r.Context(), core.PrefixUploads, mediaID, header.Filename, data); err != nil {
		logCtx.Error("Failed to store upload blob.", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	media := &models.Media{
		MediaID:  mediaID,
		Name:     header.Filename,
		MimeType: mimeType,
		Size:     header.Size,
		Style:    style,
		Status:   core.MediaStatusPending,
	}
	if err := s.store.Create(r.Context(), media); err != nil {
		logCtx.Error("Failed to create media record.", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create media record")
		return
	}

	eventType := core.EventTypeSummarize
	if core.IsImageMimeType(mimeType) {
		eventType = core.EventTypeResize
	}
	envelope := events.Envelope{
		Type: eventType,
		Payload: models.EventPayload{
			MediaID:   mediaID,
			MediaName: header.Filename,
			Style:     style,
		},
	}
	if err := s.publisher.Publish(r.Context(), envelope); err != nil {
		logCtx.Error("Failed to publish pipeline event.", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start processing")
		return
	}

	logCtx.Info("Upload accepted.")
	writeJSON(w, http.StatusCreated, models.MediaUploadResult{
		MediaID: mediaID,
		Status:  core.MediaStatusPending,
	})
}

// handleGet returns the current pipeline status of a media item.
func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	mediaID := r.PathValue("id")

	media, err := s.store.Get(r.Context(), mediaID)
	if err != nil {
		if errors.Is(err, metastore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "media not found")
			return
		}
		slog.Error("Failed to get media record.", "mediaId", mediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get media record")
		return
	}

	writeJSON(w, http.StatusOK, models.MediaStatusResponse{
		MediaID: media.MediaID,
		Name:    media.Name,
		Status:  media.Status,
	})
}

// handleDownload returns the summary text once the item is SUMMARIZED.
func (s *Service) handleDownload(w http.ResponseWriter, r *http.Request) {
	mediaID := r.PathValue("id")

	media, err := s.store.Get(r.Context(), mediaID)
	if err != nil {
		if errors.Is(err, metastore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "media not found")
			return
		}
		slog.Error("Failed to get media record.", "mediaId", mediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get media record")
		return
	}
	if media.Status != core.MediaStatusSummarized {
		writeError(w, http.StatusConflict, fmt.Sprintf("summary not ready, current status: %s", media.Status))
		return
	}

	summary, err := s.blobs.Get(r.Context(), core.PrefixSummaries, mediaID, core.SummaryName(media.Name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "summary not found")
			return
		}
		slog.Error("Failed to read summary blob.", "mediaId", mediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read summary")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(summary)
}

// handleDelete publishes the delete event; the delete worker performs the
// actual removal asynchronously.
func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	mediaID := r.PathValue("id")

	envelope := events.Envelope{
		Type:    core.EventTypeDelete,
		Payload: models.EventPayload{MediaID: mediaID},
	}
	if err := s.publisher.Publish(r.Context(), envelope); err != nil {
		slog.Error("Failed to publish delete event.", "mediaId", mediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to request deletion")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"mediaId": mediaID, "status": "DELETION_REQUESTED"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
