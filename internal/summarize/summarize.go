// Package summarize generates document summaries with a style-specific
// prompt over the Vertex AI Gemini API.
package summarize

import (
	"context"
	"fmt"
	"unicode/utf8"

	"tldr/internal/core"
)

// Summarizer produces a summary of extracted text in the requested style.
type Summarizer interface {
	Summarize(ctx context.Context, text string, style core.SummaryStyle) (string, error)
}

// BuildPrompt assembles the user prompt for a style. Oversized input is
// truncated, not rejected: losing the tail of a very long document is an
// accepted trade-off for a bounded request size.
func BuildPrompt(text string, style core.SummaryStyle) string {
	var prompt string
	switch style {
	case core.StyleDetailed:
		prompt = fmt.Sprintf("Please provide a detailed summary of the following text, including key points, main arguments, and important details: %s", text)
	case core.StyleBulletPoints:
		prompt = fmt.Sprintf("Please summarize the following text in bullet points, highlighting the most important information: %s", text)
	default:
		prompt = fmt.Sprintf("Please provide a concise summary of the following text: %s", text)
	}

	if len(prompt) > core.MaxPromptChars {
		// Back the cut up to a rune boundary; a mid-rune cut would leave
		// invalid UTF-8, which the gRPC layer rejects at marshal time.
		cut := core.MaxPromptChars
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut] + core.TruncationNotice
	}
	return prompt
}
