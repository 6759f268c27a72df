// Package deck implements flashcard deck creation and retrieval.
//
// The service layer owns the whole generate-deck pipeline: topic validation,
// the single generation attempt against the configured provider, shape
// validation of the provider's output, and persistence. It depends on the
// Repository and Generator interfaces defined in this package and should
// never import from api/.
//
// Repository implementations live in repository/postgres/; Generator
// implementations live in genai/.
package deck
