package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"tldr/internal/gcp"
	"tldr/internal/metastore"
	"tldr/internal/reaper"
)

var (
	reaperInstance *reaper.Reaper
	once           sync.Once
	initErr        error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Invoked periodically by Cloud Scheduler.
	functions.HTTP("ProcessReaper", handleReap)
}

// main is required by the Go Functions Framework.
func main() {}

func newReaper(ctx context.Context) (*reaper.Reaper, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	// The threshold must comfortably exceed the worker function timeout, so
	// only invocations that are actually dead get reaped.
	threshold, err := time.ParseDuration(gcp.GetEnv("REAPER_THRESHOLD", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REAPER_THRESHOLD: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	collection := gcp.GetEnv("FIRESTORE_COLLECTION", "media")
	return reaper.New(metastore.NewFirestoreStore(firestoreClient, collection), threshold), nil
}

// handleReap runs one sweep over stuck PROCESSING items.
func handleReap(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		reaperInstance, initErr = newReaper(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: reaper initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	reaped, err := reaperInstance.Run(r.Context())
	if err != nil {
		slog.Error("Reaper sweep failed.", "error", err)
		http.Error(w, "Internal Server Error: sweep failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"reaped": reaped})
}
