package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperforge/paperforge/internal/ai"
)

// FetchParams describe one suggestion request: the exam context plus the raw
// source text questions should be drawn from.
type FetchParams struct {
	Subject    string
	Class      string
	SourceText string
	Count      int
}

// Service fetches question suggestions from a generative completion backend.
type Service struct {
	provider ai.Provider
	model    string
}

func NewService(provider ai.Provider, model string) *Service {
	return &Service{provider: provider, model: model}
}

const systemPrompt = `You are an assistant that drafts school examination questions.
Respond with a JSON array only, no prose. Each element must have "type"
(one of "MCQ", "Short Answer", "Long Answer", "Case Study",
"Fill in the Blanks", "Match the Following") and "question". MCQ items also
carry "options" and "correctAnswer"; "Fill in the Blanks" items carry
"correctAnswer"; "Match the Following" items carry "pairs" of
{"term","definition"}. Each item may carry integer "marks".`

// Fetch asks the provider for suggestions and parses the reply. A transport
// failure or an unparseable payload is returned as-is; the caller decides how
// to surface it. There is no retry.
func (s *Service) Fetch(ctx context.Context, p FetchParams) ([]Record, error) {
	count := p.Count
	if count <= 0 {
		count = 5
	}

	user := fmt.Sprintf("Subject: %s\nClass: %s\nDraft %d questions from the following material:\n\n%s",
		p.Subject, p.Class, count, strings.TrimSpace(p.SourceText))

	resp, err := s.provider.Complete(ctx, ai.CompletionRequest{
		Model: s.model,
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion fetch: %w", err)
	}

	return ParsePayload(resp.Content)
}
