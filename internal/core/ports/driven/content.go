package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// ContentSource fetches web pages as documents.
//
// A site-wide failure (network, auth) is reported as (nil, error) so
// the ingestion orchestrator can degrade to "no content retrieved".
// Individual malformed pages are skipped silently: they contribute
// zero documents and never fail the whole fetch.
type ContentSource interface {
	// Fetch retrieves content from url. FetchSinglePage yields zero
	// or one document; FetchFullSite yields one per discovered page.
	Fetch(ctx context.Context, url string, mode domain.FetchMode) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}
