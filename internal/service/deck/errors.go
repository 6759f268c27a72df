package deck

import "errors"

// Sentinel errors for the deck service layer. The HTTP boundary maps these
// to statuses and user-facing messages with errors.Is; nothing below the
// boundary ever formats a client-visible string.
var (
	// ErrNotFound covers both "no such deck" and "deck owned by someone
	// else"; the two must stay indistinguishable to the caller.
	ErrNotFound = errors.New("deck not found")

	ErrTopicRequired = errors.New("topic is required")
	ErrTopicEmpty    = errors.New("topic is empty")
	ErrTopicTooLong  = errors.New("topic exceeds maximum length")

	// ErrThrottled means the generation provider signaled rate limiting.
	ErrThrottled = errors.New("generation provider throttled the request")
	// ErrUpstream is any other provider-side failure.
	ErrUpstream = errors.New("generation provider error")
	// ErrInvalidOutput means the provider responded but the result was
	// empty or failed the deck shape contract.
	ErrInvalidOutput = errors.New("generation produced invalid output")

	// ErrSaveFailed means generation succeeded but the insert did not.
	// The generated content is discarded; there is no retry.
	ErrSaveFailed = errors.New("deck could not be saved")
)
