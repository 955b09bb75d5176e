package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// VectorStore owns the persistent collection of vector records and
// provides similarity search over it.
//
// The collection must be ensured before any upsert or search. Text
// queries are embedded inside the store; the orchestrators never
// embed a query themselves.
type VectorStore interface {
	// EnsureCollection creates the configured collection with the
	// given dimension and a cosine metric if it does not exist, and
	// reuses it as-is when it does. It does not verify that an
	// existing collection's dimension matches; a mismatch surfaces
	// as an error on the first write.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes records to the collection, splitting them into
	// bounded-size batches to respect backend payload limits.
	// It returns the ids actually written.
	Upsert(ctx context.Context, records []domain.VectorRecord) ([]string, error)

	// SearchText embeds the query text and returns up to k records
	// in descending similarity order.
	SearchText(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error)

	// Close releases resources.
	Close() error
}
