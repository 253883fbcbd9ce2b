// Package bot wraps the chat-completion collaborator used by the
// chatbot room. The relay only needs a reply string; everything about
// the upstream API stays behind the Responder interface so the hub can
// be tested without network access.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// FallbackReply is broadcast when the collaborator is unreachable
	// or misconfigured. The frontend renders it as a normal bot message.
	FallbackReply = "Error contacting AI."

	// SenderName is the "from" field on every bot-reply frame.
	SenderName = "AI"

	systemPrompt = "You are a helpful assistant for a 3D web chatbot."
	emptyReply   = "Sorry, no response from AI."
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("bot: no API key configured")

// Responder produces a reply to a user message.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Client is a Responder backed by an OpenAI-compatible chat-completions
// endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient builds a Client. baseURL is the API root (no trailing
// /chat/completions); timeout bounds the whole round trip.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Reply sends message to the chat-completion endpoint and returns the
// first choice's content.
func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("bot: decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("bot: upstream error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("bot: upstream status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return emptyReply, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
