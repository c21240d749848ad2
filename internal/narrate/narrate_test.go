package narrate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
)

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestNarrate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "  Most rides start at 8 AM.  "}
			}]
		}`)
	}))
	defer srv.Close()

	n, err := New("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := n.Narrate(context.Background(), "time", "Most common hour for travel: 08 AM")
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if got != "Most rides start at 8 AM." {
		t.Errorf("Narrate() = %q", got)
	}

	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	if user["content"] != "Most common hour for travel: 08 AM" {
		t.Errorf("user message = %v", user["content"])
	}
}

func TestNarrateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`)
	}))
	defer srv.Close()

	n, err := New("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := n.Narrate(context.Background(), "time", "text"); err == nil {
		t.Error("expected error for unauthorized response")
	}
}

func TestNarrateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "x", "object": "chat.completion", "created": 0, "model": "gpt-4o-mini", "choices": []}`)
	}))
	defer srv.Close()

	n, err := New("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := n.Narrate(context.Background(), "user", "text"); err == nil {
		t.Error("expected error when no choices are returned")
	}
}
