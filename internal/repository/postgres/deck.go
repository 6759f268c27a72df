// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/flashdeck/internal/domain"
	"github.com/ignite/flashdeck/internal/service/deck"
)

// DeckRepo implements deck.Repository against PostgreSQL. Cards are stored
// inline as JSONB; they have no lifecycle apart from their deck.
type DeckRepo struct{ db *sql.DB }

// NewDeckRepo creates a Postgres-backed deck repository.
func NewDeckRepo(db *sql.DB) *DeckRepo { return &DeckRepo{db: db} }

func (r *DeckRepo) Insert(ctx context.Context, ownerID, title, topic string, cards []domain.Card) (string, error) {
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return "", fmt.Errorf("encode cards: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO decks (id, owner_id, title, topic, cards, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, id, ownerID, title, topic, cardsJSON)
	if err != nil {
		return "", fmt.Errorf("insert deck: %w", err)
	}
	return id, nil
}

func (r *DeckRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Deck, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, topic, cards, created_at
		FROM decks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var out []domain.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return out, nil
}

func (r *DeckRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Deck, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, topic, cards, created_at
		FROM decks
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	d, err := scanDeck(row)
	if err == sql.ErrNoRows {
		// Wrong id and wrong owner look the same from here, on purpose.
		return nil, deck.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var d domain.Deck
	var cardsJSON []byte
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Topic, &cardsJSON, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan deck: %w", err)
	}
	if err := json.Unmarshal(cardsJSON, &d.Cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return &d, nil
}
