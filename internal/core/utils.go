package core

import "path/filepath"

// GetBaseName returns the base name of a file without the extension.
func GetBaseName(fileName string) string {
	ext := filepath.Ext(fileName)
	return fileName[:len(fileName)-len(ext)]
}

// ExtractedTextName returns the blob name the extraction stage writes for a
// given upload name, e.g. "report.pdf" -> "report.extracted.txt".
func ExtractedTextName(mediaName string) string {
	return GetBaseName(mediaName) + ".extracted.txt"
}

// SummaryName returns the blob name the summarization stage writes for a
// given upload name, e.g. "report.pdf" -> "report.summary.txt".
func SummaryName(mediaName string) string {
	return GetBaseName(mediaName) + ".summary.txt"
}

// ResizedImageName returns the blob name the resize stage writes. Resized
// images are always re-encoded as JPEG.
func ResizedImageName(mediaName string) string {
	return GetBaseName(mediaName) + ".jpg"
}
