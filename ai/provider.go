package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider is one narrative backend: a single prompt in, completion text
// out. Implementations wrap transport-level and rate-limit failures in
// TransientError; anything else is treated as permanent.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TransientError marks a failure worth retrying (network trouble, rate
// limiting, upstream 5xx).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retriable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

const httpTimeout = 120 * time.Second

// openAIProvider speaks the chat-completions protocol, covering both the
// official endpoint and local OpenAI-compatible servers.
type openAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
// baseURL may be empty for the official API.
func NewOpenAIProvider(apiKey, baseURL, model string) Provider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	endpoint := "https://api.openai.com/v1/chat/completions"
	if p.baseURL != "" {
		base, err := url.Parse(p.baseURL)
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", p.baseURL, err)
		}
		ref, _ := url.Parse("v1/chat/completions")
		endpoint = base.ResolveReference(ref).String()
	}

	payload := map[string]any{
		"model":       p.model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": 0.7,
	}

	body, err := postJSON(ctx, p.client, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Error   json.RawMessage `json:"error"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding chat completion: %w", err)
	}
	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		return "", fmt.Errorf("provider error: %s", apiErrorMessage(resp.Error))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// claudeProvider speaks the Anthropic messages protocol.
type claudeProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewClaudeProvider creates a provider for the Anthropic messages API.
func NewClaudeProvider(apiKey, model string) Provider {
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	return &claudeProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: httpTimeout},
	}
}

func (p *claudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      p.model,
		"max_tokens": 2048,
		"messages":   []map[string]string{{"role": "user", "content": prompt}},
	}

	body, err := postJSON(ctx, p.client, "https://api.anthropic.com/v1/messages", payload, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Type    string          `json:"type"`
		Error   json.RawMessage `json:"error"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding messages response: %w", err)
	}
	if resp.Type == "error" {
		return "", fmt.Errorf("provider error: %s", apiErrorMessage(resp.Error))
	}
	if len(resp.Content) == 0 {
		return "", errors.New("provider returned no content")
	}
	return resp.Content[0].Text, nil
}

// postJSON sends a JSON payload and returns the response body. Transport
// failures, 429 and 5xx responses come back as TransientError; other
// non-2xx statuses are permanent.
func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any, headers map[string]string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, &TransientError{Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &TransientError{Err: fmt.Errorf("status %d from %s", resp.StatusCode, endpoint)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d from %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(buf.String()))
	}
	return buf.Bytes(), nil
}

// apiErrorMessage extracts a human-readable message from a provider's
// error value, which may be an object with a message field or a bare
// string.
func apiErrorMessage(raw json.RawMessage) string {
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return string(raw)
}
