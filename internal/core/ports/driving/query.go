package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// QueryService answers natural-language questions grounded in the
// ingested content.
type QueryService interface {
	// Answer retrieves context for the question and generates a
	// grounded answer. Retrieval misses and generation failures
	// produce fixed sentinel answers, never errors.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
