package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfiguration indicates missing or invalid configuration:
	// absent credentials, a bad chunking setup, a dimension mismatch.
	// Raised at construction time, before any pipeline call runs.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrContentUnavailable indicates the content source could not be
	// reached or returned a site-wide failure. The orchestrator treats
	// this as "no content retrieved", never as a crash.
	ErrContentUnavailable = errors.New("content source unavailable")

	// ErrEmbeddingUnavailable indicates the embedding backend failed
	// after the retry budget was exhausted. An embedding call never
	// silently returns an empty vector instead of this error.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the text-generation backend
	// failed. Generation is never retried above the gateway.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrCollectionNotFound indicates a vector operation ran against a
	// collection that was never ensured. Fatal for the call.
	ErrCollectionNotFound = errors.New("collection not found")
)
