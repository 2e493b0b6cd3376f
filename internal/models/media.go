package models

import (
	"time"

	"tldr/internal/core"
)

// Media represents the metadata record for one uploaded file in Firestore.
// It tracks the pipeline status alongside the immutable upload attributes.
// Status is the only field subject to concurrent writers; everything else is
// set once at creation.
type Media struct {
	MediaID   string            `firestore:"-" json:"mediaId"`
	Name      string            `firestore:"name" json:"name"`
	MimeType  string            `firestore:"mimeType" json:"mimeType"`
	Size      int64             `firestore:"size" json:"size"`
	Style     core.SummaryStyle `firestore:"style,omitempty" json:"style,omitempty"`
	Status    core.MediaStatus  `firestore:"status" json:"status"`
	CreatedAt time.Time         `firestore:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt time.Time         `firestore:"updatedAt" json:"updatedAt,omitempty"`
}

// MediaUploadResult is the response body for a successful upload.
type MediaUploadResult struct {
	MediaID string           `json:"mediaId"`
	Status  core.MediaStatus `json:"status"`
}

// MediaStatusResponse is the response body for a status query.
type MediaStatusResponse struct {
	MediaID string           `json:"mediaId"`
	Name    string           `json:"name"`
	Status  core.MediaStatus `json:"status"`
}
