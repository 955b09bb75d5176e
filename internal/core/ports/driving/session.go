package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// SessionService manages the local session state: chat history and
// the ingestion log.
type SessionService interface {
	// Append records one chat turn.
	Append(ctx context.Context, role, content string) error

	// History returns the chat history in chronological order.
	History(ctx context.Context) ([]domain.ChatMessage, error)

	// Clear deletes the chat history.
	Clear(ctx context.Context) error

	// RecordIngestion logs a completed ingestion run.
	RecordIngestion(ctx context.Context, url string, mode domain.FetchMode, result *domain.IngestResult) error

	// Ingestions returns the ingestion log, newest first.
	Ingestions(ctx context.Context) ([]domain.IngestionRecord, error)
}
