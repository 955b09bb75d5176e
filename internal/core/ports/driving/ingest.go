package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// IngestOrchestrator drives the ingestion pipeline: fetch, split,
// embed and store, then summarise.
type IngestOrchestrator interface {
	// Ingest runs the pipeline for one URL. A fetch that yields no
	// documents is a valid run producing (0, "No content."), not an
	// error. The returned error is reserved for configuration-level
	// failures; per-stage collaborator failures degrade the result
	// instead.
	Ingest(ctx context.Context, url string, mode domain.FetchMode) (*domain.IngestResult, error)
}
