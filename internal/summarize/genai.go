package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GenAIBackend summarizes through Google's Gemini API.
// max_length maps to the output token budget and beams to the candidate
// count; the first candidate is returned.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

func NewGenAIBackend(ctx context.Context, apiKey, model string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIBackend{client: client, model: model}, nil
}

func (b *GenAIBackend) Device() string { return "gemini:" + b.model }

func (b *GenAIBackend) Summarize(ctx context.Context, text string, p Params) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt(text, p.MaxLength), genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.MaxLength),
		CandidateCount:  int32(p.Beams),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("no summary returned")
	}
	return out, nil
}

func prompt(text string, maxLength int) string {
	return fmt.Sprintf("Summarize the following text in at most %d words. Reply with the summary only.\n\n%s", maxLength, text)
}
