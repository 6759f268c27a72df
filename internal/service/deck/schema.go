package deck

import (
	"fmt"
	"strings"

	"github.com/ignite/flashdeck/internal/domain"
)

// Generated is the shape a generation provider must produce: a titled deck
// of 8-12 front/back cards. It is validated immediately after it crosses
// the provider boundary, before anything reaches persistence.
type Generated struct {
	Title string        `json:"title"`
	Topic string        `json:"topic"`
	Cards []domain.Card `json:"cards"`
}

// Validate enforces the deck shape contract. Any deviation is a failure
// wrapping ErrInvalidOutput; nothing is coerced or truncated. The wrapped
// detail is for server-side logs only and must never reach a client.
func (g *Generated) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: empty result", ErrInvalidOutput)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidOutput)
	}
	if strings.TrimSpace(g.Topic) == "" {
		return fmt.Errorf("%w: missing topic", ErrInvalidOutput)
	}
	if n := len(g.Cards); n < domain.MinDeckCards || n > domain.MaxDeckCards {
		return fmt.Errorf("%w: %d cards outside [%d,%d]",
			ErrInvalidOutput, n, domain.MinDeckCards, domain.MaxDeckCards)
	}
	for i, c := range g.Cards {
		if strings.TrimSpace(c.Front) == "" {
			return fmt.Errorf("%w: card %d has empty front", ErrInvalidOutput, i)
		}
		if strings.TrimSpace(c.Back) == "" {
			return fmt.Errorf("%w: card %d has empty back", ErrInvalidOutput, i)
		}
	}
	return nil
}
