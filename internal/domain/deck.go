package domain

import (
	"time"
)

// Deck size bounds enforced on every generated deck before it is persisted.
const (
	MinDeckCards = 8
	MaxDeckCards = 12
)

// Card is a single front/back flashcard. Cards have no identity of their
// own; they live inside their parent deck's JSONB column.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a titled, topic-scoped collection of flashcards owned by one user.
// Decks are immutable after creation: id and created_at are assigned by the
// persistence layer, owner_id is fixed to the authenticated creator.
type Deck struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"-" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Topic     string    `json:"topic" db:"topic"`
	Cards     []Card    `json:"cards" db:"cards"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CardCount returns the number of cards in the deck.
func (d *Deck) CardCount() int { return len(d.Cards) }
