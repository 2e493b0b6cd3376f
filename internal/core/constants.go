package core

// MaxFileSize is the maximum accepted upload size (100 MB).
const MaxFileSize = 100 * 1024 * 1024

// MaxPromptChars bounds the prompt sent to the summarization model. Longer
// prompts are truncated, not rejected.
const MaxPromptChars = 8000

// TruncationNotice is appended to prompts that were cut at MaxPromptChars.
const TruncationNotice = "... [text truncated due to length]"

// ResizedImageWidth is the target width in pixels for the resize stage.
const ResizedImageWidth = 500

// MediaStatus represents the pipeline status of a media item.
type MediaStatus string

const (
	MediaStatusPending    MediaStatus = "PENDING"
	MediaStatusProcessing MediaStatus = "PROCESSING"
	MediaStatusExtracted  MediaStatus = "EXTRACTED"
	MediaStatusSummarized MediaStatus = "SUMMARIZED"
	MediaStatusComplete   MediaStatus = "COMPLETE"
	MediaStatusError      MediaStatus = "ERROR"
)

// BlobPrefix identifies which pipeline stage produced a stored payload.
// Object keys are "{prefix}/{mediaId}/{name}".
type BlobPrefix string

const (
	PrefixUploads   BlobPrefix = "uploads"
	PrefixExtracts  BlobPrefix = "extracts"
	PrefixSummaries BlobPrefix = "summaries"
	PrefixResized   BlobPrefix = "resized"
)

// AllPrefixes lists every prefix a media item may have blobs under.
var AllPrefixes = []BlobPrefix{PrefixUploads, PrefixExtracts, PrefixSummaries, PrefixResized}

// Event types carried on the media-management topic.
const (
	EventTypeDelete        = "media.v1.delete"
	EventTypeResize        = "media.v1.resize"
	EventTypeSummarize     = "media.v1.summarize"
	EventTypeSummarizeText = "media.v1.summarize.text"
)

// SummaryStyle selects the prompt template for the summarization stage.
type SummaryStyle string

const (
	StyleConcise      SummaryStyle = "concise"
	StyleDetailed     SummaryStyle = "detailed"
	StyleBulletPoints SummaryStyle = "bullet-points"

	// DefaultStyle is applied when the requested style is absent or unknown.
	DefaultStyle = StyleConcise
)

var knownStyles = map[SummaryStyle]struct{}{
	StyleConcise:      {},
	StyleDetailed:     {},
	StyleBulletPoints: {},
}

// ParseStyle normalizes a client-supplied style, falling back to DefaultStyle.
func ParseStyle(value string) SummaryStyle {
	style := SummaryStyle(value)
	if _, ok := knownStyles[style]; ok {
		return style
	}
	return DefaultStyle
}

// Allowed upload MIME types. PDFs enter the extraction pipeline, images the
// resize pipeline.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
)

// IsAllowedMimeType reports whether uploads of the given type are accepted.
func IsAllowedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypePDF, MimeTypeJPEG, MimeTypePNG:
		return true
	}
	return false
}

// IsImageMimeType reports whether the type routes to the resize pipeline.
func IsImageMimeType(mimeType string) bool {
	return mimeType == MimeTypeJPEG || mimeType == MimeTypePNG
}
