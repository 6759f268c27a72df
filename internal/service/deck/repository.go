package deck

import (
	"context"

	"github.com/ignite/flashdeck/internal/domain"
)

// Repository defines the data access contract for decks.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert creates exactly one deck row owned by ownerID and returns the
	// new id. The id and created_at are assigned at insert time.
	Insert(ctx context.Context, ownerID, title, topic string, cards []domain.Card) (string, error)

	// ListByOwner returns the owner's decks ordered by created_at DESC.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Deck, error)

	// GetByIDAndOwner returns the deck only if both the id and the owner
	// match. A wrong id and a wrong owner are both ErrNotFound, so the query
	// scoping is the access control.
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Deck, error)
}
