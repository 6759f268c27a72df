// Package genai holds what is common to all generation providers: the fixed
// instruction prompt, the deck output schema, and tolerant parsing of model
// JSON. Provider clients live in the subpackages and implement
// deck.Generator.
package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ignite/flashdeck/internal/service/deck"
)

// MaxOutputTokens caps generated output to bound cost and latency.
const MaxOutputTokens = 2000

// DeckInstructions is the fixed educator-persona instruction prompt sent
// with every generation request.
const DeckInstructions = `You are an expert educator creating flashcards. Generate a set of 8-12 high-quality flashcards for studying the given topic.

Each card should:
- Have a clear, specific question or prompt on the front
- Have a concise but comprehensive answer on the back
- Cover different aspects of the topic
- Progress from basic concepts to more advanced ones
- Be educational and accurate

Create flashcards that would help a student thoroughly understand and remember the topic.`

// DeckSchemaJSON is the JSON Schema the provider's structured output must
// conform to. It mirrors deck.Generated; the service still re-validates the
// parsed result, so the schema is a constraint, not the enforcement.
const DeckSchemaJSON = `{
  "type": "object",
  "properties": {
    "title": {
      "type": "string",
      "description": "A concise, descriptive title for this flashcard deck"
    },
    "topic": {
      "type": "string",
      "description": "The main topic this deck covers"
    },
    "cards": {
      "type": "array",
      "minItems": 8,
      "maxItems": 12,
      "description": "Array of 8-12 flashcards",
      "items": {
        "type": "object",
        "properties": {
          "front": {
            "type": "string",
            "description": "The question or prompt on the front of the card"
          },
          "back": {
            "type": "string",
            "description": "The answer or explanation on the back of the card"
          }
        },
        "required": ["front", "back"],
        "additionalProperties": false
      }
    }
  },
  "required": ["title", "topic", "cards"],
  "additionalProperties": false
}`

// UserMessage embeds the validated topic into the per-request user message.
func UserMessage(topic string) string {
	return fmt.Sprintf("Create flashcards for the topic: %q", topic)
}

// ParseDeckJSON parses model output into a deck.Generated. Models sometimes
// wrap JSON in markdown code fences even when asked not to, so those are
// stripped first. A parse failure is a deck.ErrInvalidOutput condition.
func ParseDeckJSON(content string) (*deck.Generated, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if content == "" {
		return nil, fmt.Errorf("%w: empty completion", deck.ErrInvalidOutput)
	}

	var g deck.Generated
	if err := json.Unmarshal([]byte(content), &g); err != nil {
		return nil, fmt.Errorf("%w: %v", deck.ErrInvalidOutput, err)
	}
	return &g, nil
}
