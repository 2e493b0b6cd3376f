// Package extract turns uploaded PDFs into plain text for the summarization
// stage. Corrupt or unparseable input is a terminal failure for the item, not
// a retryable one.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/unidoc/unipdf/v3/extractor"
	unipdfmodel "github.com/unidoc/unipdf/v3/model"
)

// Extractor extracts text from a binary document payload.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// PDFExtractor implements Extractor for PDF payloads.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText validates the PDF and extracts text page by page, joined with
// blank lines. An empty document yields an empty string, not an error.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty PDF payload")
	}

	if err := ValidatePDF(data); err != nil {
		return "", err
	}

	reader, err := unipdfmodel.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("failed to get page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("failed to create extractor for page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		if text != "" {
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString(text)
		}
	}

	return strings.TrimSpace(buf.String()), nil
}

// ValidatePDF checks that the payload is a structurally sound PDF. Relaxed
// validation mode tolerates the minor spec violations common in real-world
// files.
func ValidatePDF(data []byte) error {
	cfg := pdfcpumodel.NewDefaultConfiguration()
	cfg.ValidationMode = pdfcpumodel.ValidationRelaxed
	if err := pdfcpu.Validate(bytes.NewReader(data), cfg); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}
