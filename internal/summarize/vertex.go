package summarize

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"tldr/internal/core"
	"tldr/internal/gcp"
)

// VertexSummarizer implements Summarizer over a pre-configured Gemini model.
type VertexSummarizer struct {
	client *gcp.VertexClient
}

// NewVertexSummarizer wraps an existing Vertex client.
func NewVertexSummarizer(client *gcp.VertexClient) *VertexSummarizer {
	return &VertexSummarizer{client: client}
}

// Summarize sends the style-specific prompt and assembles the response text.
func (s *VertexSummarizer) Summarize(ctx context.Context, text string, style core.SummaryStyle) (string, error) {
	prompt := BuildPrompt(text, style)

	resp, err := s.client.SummarizerModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary from gemini: %w", err)
	}

	summary := extractResponseText(resp)
	if summary == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	return summary, nil
}

// extractResponseText walks the candidate's parts and concatenates the text
// ones.
func extractResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			builder.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(builder.String())
}
