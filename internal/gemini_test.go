package internal

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MacaquinhoPro/chatgpt2/testutil"
)

func TestBuildPrompt(t *testing.T) {
	history := []Message{
		{Text: "Hello world", Sender: SenderUser},
		{Text: "Hi there", Sender: SenderBot},
		{Text: "How are you?", Sender: SenderUser},
	}

	parts := BuildPrompt(history)
	want := []string{
		"User: Hello world",
		"Assistant: Hi there",
		"User: How are you?",
	}
	if len(parts) != len(want) {
		t.Fatalf("got %d parts, want %d", len(parts), len(want))
	}
	for i, w := range want {
		if parts[i].Text != w {
			t.Errorf("parts[%d].Text = %q, want %q", i, parts[i].Text, w)
		}
	}
}

func TestBuildPrompt_Empty(t *testing.T) {
	if parts := BuildPrompt(nil); len(parts) != 0 {
		t.Errorf("BuildPrompt(nil) returned %d parts, want 0", len(parts))
	}
}

func newTestCompletion(t *testing.T, status int, body interface{}) *CompletionClient {
	t.Helper()
	srv := testutil.NewCompletionServer(t, status, body)
	c := NewCompletionClient("test-key", "test-model")
	c.SetBaseURL(srv.URL)
	return c
}

func TestCompletionClient_GenerateReply(t *testing.T) {
	c := newTestCompletion(t, http.StatusOK, testutil.CompletionReply("  Hi there  "))

	reply, err := c.GenerateReply(context.Background(), BuildPrompt([]Message{{Text: "Hello", Sender: SenderUser}}))
	if err != nil {
		t.Fatalf("GenerateReply() error = %v", err)
	}
	if reply != "Hi there" {
		t.Errorf("reply = %q, want trimmed %q", reply, "Hi there")
	}
}

func TestCompletionClient_GenerateReply_ServerError(t *testing.T) {
	c := newTestCompletion(t, http.StatusInternalServerError, map[string]string{"error": "boom"})

	_, err := c.GenerateReply(context.Background(), nil)
	var statusErr *APIStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *APIStatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", statusErr.StatusCode)
	}
}

func TestCompletionClient_GenerateReply_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"empty candidates", map[string]interface{}{"candidates": []interface{}{}}},
		{"no parts", map[string]interface{}{"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{"parts": []interface{}{}},
		}}}},
		{"empty text", testutil.CompletionReply("   ")},
		{"no body", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompletion(t, http.StatusOK, tt.body)
			_, err := c.GenerateReply(context.Background(), nil)
			if !errors.Is(err, ErrInvalidReply) {
				t.Errorf("error = %v, want ErrInvalidReply (distinct from APIStatusError)", err)
			}
		})
	}
}

func TestCompletionClient_GenerateReply_NetworkError(t *testing.T) {
	c := NewCompletionClient("test-key", "test-model")
	c.SetBaseURL("http://127.0.0.1:1") // nothing listens here

	_, err := c.GenerateReply(context.Background(), nil)
	if err == nil {
		t.Fatal("GenerateReply() succeeded against a dead endpoint")
	}
	var statusErr *APIStatusError
	if errors.As(err, &statusErr) || errors.Is(err, ErrInvalidReply) {
		t.Errorf("network failure should be its own case, got %v", err)
	}
}
