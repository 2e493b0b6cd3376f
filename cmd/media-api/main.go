package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"tldr/internal/api"
)

var (
	serviceInstance *api.Service
	handlerInstance http.Handler
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "MediaAPI" is the entry point name configured in GCP.
	functions.HTTP("MediaAPI", handleMediaAPI)
}

// main is required by the Go Functions Framework.
func main() {}

// handleMediaAPI serves the media upload/status/download/delete routes.
func handleMediaAPI(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		serviceInstance, initErr = api.NewServiceFromEnv(context.Background())
		if initErr == nil {
			handlerInstance = serviceInstance.Handler()
		}
	})
	if initErr != nil {
		slog.Error("Critical: media API initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	handlerInstance.ServeHTTP(w, r)
}
