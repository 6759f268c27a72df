// Package bedrock implements deck generation via AWS Bedrock (Anthropic
// models through InvokeModel). All traffic stays within AWS, which some
// deployments require; the output contract is identical to the OpenAI path.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/ignite/flashdeck/internal/genai"
	"github.com/ignite/flashdeck/internal/service/deck"
)

const defaultModelID = "anthropic.claude-3-sonnet-20240229-v1:0"

// invoker is the slice of bedrockruntime.Client this package uses.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client calls Bedrock for deck generation.
type Client struct {
	client  invoker
	modelID string
}

// NewClient loads the default AWS config for the given region and creates
// a Bedrock-backed deck generator.
func NewClient(ctx context.Context, region, modelID string) (*Client, error) {
	if region == "" {
		region = "us-east-1"
	}
	if modelID == "" {
		modelID = defaultModelID
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// GenerateDeck makes a single InvokeModel call for the given topic. Bedrock
// has no json_schema response format, so the schema is embedded in the
// system prompt and the text block is parsed as JSON afterwards.
func (c *Client) GenerateDeck(ctx context.Context, topic string) (*deck.Generated, error) {
	system := genai.DeckInstructions +
		"\n\nRespond with a single JSON object conforming to this JSON Schema, with no prose and no code fences:\n" +
		genai.DeckSchemaJSON

	reqBody, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        genai.MaxOutputTokens,
		System:           system,
		Messages: []anthropicMessage{
			{Role: "user", Content: genai.UserMessage(topic)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        reqBody,
	})
	if err != nil {
		var throttled *types.ThrottlingException
		if errors.As(err, &throttled) {
			return nil, fmt.Errorf("%w: bedrock throttled", deck.ErrThrottled)
		}
		return nil, fmt.Errorf("%w: bedrock: %v", deck.ErrUpstream, err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", deck.ErrInvalidOutput, err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("%w: no content blocks", deck.ErrInvalidOutput)
	}

	return genai.ParseDeckJSON(resp.Content[0].Text)
}
