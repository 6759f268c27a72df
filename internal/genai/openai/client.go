// Package openai implements deck generation against the OpenAI chat
// completions API with schema-constrained (json_schema) output.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ignite/flashdeck/internal/genai"
	"github.com/ignite/flashdeck/internal/service/deck"
)

const defaultBaseURL = "https://api.openai.com"

// Client calls OpenAI for deck generation. One attempt per call; the
// full (non-streamed) completion is awaited before returning.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OpenAI-backed deck generator.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL overrides the API endpoint (tests point this at httptest).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// GenerateDeck makes a single structured-output completion request for the
// given topic and parses the result. Failures are classified with the deck
// package sentinels so the pipeline can tell "try later" from "our bug".
func (c *Client) GenerateDeck(ctx context.Context, topic string) (*deck.Generated, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: genai.DeckInstructions},
			{Role: "user", Content: genai.UserMessage(topic)},
		},
		MaxTokens: genai.MaxOutputTokens,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "flashcard_deck",
				Strict: true,
				Schema: json.RawMessage(genai.DeckSchemaJSON),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deck.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: openai status 429", deck.ErrThrottled)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: openai status %d", deck.ErrUpstream, resp.StatusCode)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("%w: %v", deck.ErrInvalidOutput, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in completion", deck.ErrInvalidOutput)
	}

	return genai.ParseDeckJSON(completion.Choices[0].Message.Content)
}
