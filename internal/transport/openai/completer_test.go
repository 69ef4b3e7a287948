package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

func chatServer(t *testing.T, status int, content string, check func(req map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if check != nil {
			check(req)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream overloaded", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
}

func TestCompleter_Complete(t *testing.T) {
	server := chatServer(t, http.StatusOK, "  FOLLOW_UP\n", func(req map[string]any) {
		if req["max_tokens"] != float64(10) {
			t.Errorf("expected max_tokens 10, got %v", req["max_tokens"])
		}
		msgs, _ := req["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(msgs))
		}
		first, _ := msgs[0].(map[string]any)
		if first["role"] != "system" || first["content"] != "classify" {
			t.Errorf("unexpected system message: %v", first)
		}
	})
	defer server.Close()

	c := NewCompleter(&ChatConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model", Logger: zap.NewNop()}).
		ForCallSite("intent")

	ctx, usage := domain.NewContextWithUsage(context.Background())
	got, err := c.Complete(ctx, "classify", "fortæl mig mere", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "FOLLOW_UP" {
		t.Errorf("expected trimmed reply, got %q", got)
	}
	if _, tokens, calls := usage.Snapshot(); tokens != 15 || calls != 1 {
		t.Errorf("unexpected usage: tokens=%d calls=%d", tokens, calls)
	}
}

func TestCompleter_EmptyReply(t *testing.T) {
	server := chatServer(t, http.StatusOK, "   ", nil)
	defer server.Close()

	c := NewCompleter(&ChatConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model"})
	_, err := c.Complete(context.Background(), "x", "y", 10)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestCompleter_APIError(t *testing.T) {
	server := chatServer(t, http.StatusServiceUnavailable, "", nil)
	defer server.Close()

	c := NewCompleter(&ChatConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model"})
	_, err := c.Complete(context.Background(), "x", "y", 10)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestCompleter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewCompleter(&ChatConfig{APIKey: "k", BaseURL: server.URL, Model: "m", Timeout: 50 * time.Millisecond})
	start := time.Now()
	if _, err := c.Complete(context.Background(), "x", "y", 10); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Error("timeout was not applied")
	}
}
