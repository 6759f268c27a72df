package deck

import "context"

// Generator produces a candidate deck for a topic using an external
// structured-generation provider. Implementations make exactly one attempt
// per call, with no internal retries and no streaming, and classify failures as
// ErrThrottled, ErrUpstream, or ErrInvalidOutput (wrapped).
type Generator interface {
	GenerateDeck(ctx context.Context, topic string) (*Generated, error)
}
