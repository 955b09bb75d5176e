package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// SessionStore persists chat history and the ingestion log.
// All durable vector state lives in the VectorStore; this store only
// holds the local session bookkeeping shown by the CLI.
type SessionStore interface {
	// AppendMessage records one chat turn.
	AppendMessage(ctx context.Context, msg domain.ChatMessage) error

	// Messages returns the chat history in chronological order.
	Messages(ctx context.Context) ([]domain.ChatMessage, error)

	// ClearMessages deletes the chat history.
	ClearMessages(ctx context.Context) error

	// RecordIngestion appends one entry to the ingestion log.
	RecordIngestion(ctx context.Context, rec domain.IngestionRecord) error

	// Ingestions returns the ingestion log, newest first.
	Ingestions(ctx context.Context) ([]domain.IngestionRecord, error)

	// Close releases resources.
	Close() error
}
