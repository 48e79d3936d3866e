package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sqlask/sqlask/internal/completion"
)

func TestCompleteSendsStopSequencesAndJoinsTextBlocks(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" || r.Method != http.MethodPost {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"stop_reason": "stop_sequence",
			"content": [
				{"type": "text", "text": "SELECT COUNT(*) "},
				{"type": "text", "text": "FROM artists"}
			],
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	p, err := New(Config{BaseURL: srv.URL + "/v1", APIKey: "secret", Model: "claude-test", MaxTokens: 128})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := p.Complete(context.Background(), "prompt", completion.Options{StopSequences: []string{"\nSQLResult:"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	wrapped, ok := got.(completion.WrappedText)
	if !ok {
		t.Fatalf("Complete() returned %T, want completion.WrappedText", got)
	}
	if wrapped.Payload["stop_reason"] != "stop_sequence" {
		t.Fatalf("stop_reason = %v", wrapped.Payload["stop_reason"])
	}
	if text := completion.Text(got); text != "SELECT COUNT(*) FROM artists" {
		t.Fatalf("Text() = %q", text)
	}

	if captured["model"] != "claude-test" {
		t.Fatalf("model = %v", captured["model"])
	}
	if captured["max_tokens"] != float64(128) {
		t.Fatalf("max_tokens = %v", captured["max_tokens"])
	}
	stops, ok := captured["stop_sequences"].([]any)
	if !ok || len(stops) != 1 || stops[0] != "\nSQLResult:" {
		t.Fatalf("stop_sequences = %#v", captured["stop_sequences"])
	}
}

func TestCompleteReturnsErrorOnFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p, err := New(Config{BaseURL: srv.URL + "/v1", APIKey: "bad"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Complete(context.Background(), "prompt", completion.Options{}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestNewRequiresAPIKeyAndAppliesDefaults(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	p, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.model != defaultModel || p.maxTokens != defaultMaxTokens {
		t.Fatalf("defaults = %q/%d", p.model, p.maxTokens)
	}
	if p.Name() != "anthropic" {
		t.Fatalf("Name() = %q", p.Name())
	}
}
