package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/paperforge/paperforge/internal/ai"
)

func TestServiceFetch(t *testing.T) {
	mock := ai.NewMockProvider(`[{"type": "MCQ", "question": "capital of France?", "marks": 1, "options": ["Paris","Lyon"], "correctAnswer": "Paris"}]`)
	svc := NewService(mock, "test-model")

	records, err := svc.Fetch(context.Background(), FetchParams{
		Subject:    "Geography",
		Class:      "8",
		SourceText: "Chapter on European capitals.",
		Count:      3,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 || records[0].Question != "capital of France?" {
		t.Fatalf("records = %+v", records)
	}

	if mock.LastRequest == nil {
		t.Fatal("provider never called")
	}
	if mock.LastRequest.Model != "test-model" {
		t.Errorf("model = %q", mock.LastRequest.Model)
	}
	user := mock.LastRequest.Messages[len(mock.LastRequest.Messages)-1].Content
	for _, want := range []string{"Geography", "Class: 8", "3 questions", "European capitals"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestServiceFetchProviderError(t *testing.T) {
	mock := &ai.MockProvider{Err: errors.New("upstream down")}
	svc := NewService(mock, "m")

	if _, err := svc.Fetch(context.Background(), FetchParams{SourceText: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceFetchMalformedReply(t *testing.T) {
	mock := ai.NewMockProvider("Sorry, I cannot help with that.")
	svc := NewService(mock, "m")

	_, err := svc.Fetch(context.Background(), FetchParams{SourceText: "x"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
