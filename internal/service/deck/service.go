package deck

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ignite/flashdeck/internal/domain"
	"github.com/ignite/flashdeck/internal/pkg/logger"
)

// MaxTopicLength bounds user-supplied topics; anything longer is rejected
// before a generation request is made.
const MaxTopicLength = 200

// ValidateTopic trims the raw topic and checks its length in characters,
// not bytes, so multibyte input is not penalized. It returns the trimmed
// topic on success. Validation is idempotent: feeding its output back in
// yields the same result.
func ValidateTopic(raw string) (string, error) {
	topic := strings.TrimSpace(raw)
	if topic == "" {
		return "", ErrTopicEmpty
	}
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		return "", ErrTopicTooLong
	}
	return topic, nil
}

// Service implements the deck creation pipeline and the owner-scoped read
// paths. All public methods are safe for concurrent use if the underlying
// repository and generator are.
type Service struct {
	repo Repository
	gen  Generator
}

// NewService creates a deck service backed by the given repository and
// generation provider.
func NewService(repo Repository, gen Generator) *Service {
	return &Service{repo: repo, gen: gen}
}

// CreateResult is what a successful pipeline run returns to the caller.
type CreateResult struct {
	DeckID    string `json:"deckId"`
	Title     string `json:"title"`
	CardCount int    `json:"cardCount"`
}

// Create runs the pipeline for one request: validate the topic, make a
// single generation attempt, validate the provider's output, and persist
// the deck under ownerID. Every failure is terminal; no step is retried.
func (s *Service) Create(ctx context.Context, ownerID, rawTopic string) (*CreateResult, error) {
	topic, err := ValidateTopic(rawTopic)
	if err != nil {
		return nil, err
	}

	out, err := s.gen.GenerateDeck(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("generate deck: %w", err)
	}
	if err := out.Validate(); err != nil {
		logger.Warn("generated deck failed validation", "error", err.Error())
		return nil, err
	}

	id, err := s.repo.Insert(ctx, ownerID, out.Title, out.Topic, out.Cards)
	if err != nil {
		// Generation cost is sunk at this point; the content is discarded
		// rather than queued for a re-attempt.
		logger.Error("deck insert failed", "error", err.Error())
		return nil, ErrSaveFailed
	}

	logger.Info("deck created", "deck_id", id, "cards", len(out.Cards))
	return &CreateResult{DeckID: id, Title: out.Title, CardCount: len(out.Cards)}, nil
}

// List returns the owner's decks, newest first. A fetch error at this read
// path degrades to an empty list instead of failing the page.
func (s *Service) List(ctx context.Context, ownerID string) []domain.Deck {
	decks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("list decks failed", "error", err.Error())
		return []domain.Deck{}
	}
	if decks == nil {
		decks = []domain.Deck{}
	}
	return decks
}

// Get returns one deck if it exists and belongs to ownerID; otherwise
// ErrNotFound, with no hint whether the id exists at all.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*domain.Deck, error) {
	return s.repo.GetByIDAndOwner(ctx, id, ownerID)
}
