package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dkranz/leadgate/internal/contact"
)

func testClassifier(t *testing.T, handler http.HandlerFunc) (*Classifier, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	cfg.HTTPClient = srv.Client()
	return &Classifier{client: openai.NewClientWithConfig(cfg), model: "gpt-4o-mini"}, srv
}

func TestClassify(t *testing.T) {
	c, srv := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("messages = %d, want system + user", len(req.Messages))
		}
		if !strings.Contains(req.Messages[1].Content, "Acme GmbH") {
			t.Errorf("user message missing lead detail: %q", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  SMB owner asking about an AI readiness audit.\n"}},
			},
		})
	})
	defer srv.Close()

	sub := &contact.Submission{
		Name:     "Ana",
		Email:    "ana@acme.example",
		Business: "Acme GmbH",
		Message:  "We want an AI readiness audit.",
	}

	note, err := c.Classify(context.Background(), sub)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if note != "SMB owner asking about an AI readiness audit." {
		t.Errorf("note = %q, want trimmed completion", note)
	}
}

func TestClassifyEmptyCompletion(t *testing.T) {
	c, srv := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "cmpl-2"})
	})
	defer srv.Close()

	if _, err := c.Classify(context.Background(), &contact.Submission{Name: "Ana"}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
