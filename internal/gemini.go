package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// CompletionClient talks to the generative-language API's generateContent
// endpoint.
type CompletionClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewCompletionClient creates a client for the given model.
func NewCompletionClient(apiKey, model string) *CompletionClient {
	return &CompletionClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *CompletionClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// PromptPart is one role-tagged line of the prompt.
type PromptPart struct {
	Text string `json:"text"`
}

type generateRequest struct {
	Contents []struct {
		Parts []PromptPart `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildPrompt maps the full message history to role-tagged lines
// ("User: …" / "Assistant: …") in order.
func BuildPrompt(history []Message) []PromptPart {
	parts := make([]PromptPart, 0, len(history))
	for _, msg := range history {
		if msg.Sender == SenderUser {
			parts = append(parts, PromptPart{Text: "User: " + msg.Text})
		} else {
			parts = append(parts, PromptPart{Text: "Assistant: " + msg.Text})
		}
	}
	return parts
}

// GenerateReply sends the prompt and returns the reply text at
// candidates[0].content.parts[0].text.
//
// A non-2xx status yields an APIStatusError, a 2xx payload missing the
// reply path yields ErrInvalidReply, and a transport failure is returned
// wrapped. Callers surface each as a distinct alert; none is retried.
func (c *CompletionClient) GenerateReply(ctx context.Context, prompt []PromptPart) (string, error) {
	var req generateRequest
	req.Contents = append(req.Contents, struct {
		Parts []PromptPart `json:"parts"`
	}{Parts: prompt})

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", ErrInvalidReply
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrInvalidReply
	}
	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrInvalidReply
	}
	return text, nil
}
