package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.SessionService = (*HistoryService)(nil)

// HistoryService manages the local session state: chat history and
// the ingestion log. It assigns ids and timestamps so the store only
// has to persist.
type HistoryService struct {
	store driven.SessionStore
	now   func() time.Time
}

// NewHistoryService creates a new session service.
func NewHistoryService(store driven.SessionStore) *HistoryService {
	return &HistoryService{
		store: store,
		now:   time.Now,
	}
}

// Append records one chat turn.
func (s *HistoryService) Append(ctx context.Context, role, content string) error {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return fmt.Errorf("%w: chat role %q", domain.ErrInvalidInput, role)
	}
	if content == "" {
		return fmt.Errorf("%w: empty chat message", domain.ErrInvalidInput)
	}

	return s.store.AppendMessage(ctx, domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
}

// History returns the chat history in chronological order.
func (s *HistoryService) History(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.store.Messages(ctx)
}

// Clear deletes the chat history.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.ClearMessages(ctx)
}

// RecordIngestion logs a completed ingestion run.
func (s *HistoryService) RecordIngestion(ctx context.Context, url string, mode domain.FetchMode, result *domain.IngestResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil ingest result", domain.ErrInvalidInput)
	}

	return s.store.RecordIngestion(ctx, domain.IngestionRecord{
		ID:               uuid.New().String(),
		URL:              url,
		Mode:             mode,
		DocumentsFetched: result.DocumentsFetched,
		ChunksStored:     result.ChunksStored,
		Summary:          result.Summary,
		CreatedAt:        s.now().UTC(),
	})
}

// Ingestions returns the ingestion log, newest first.
func (s *HistoryService) Ingestions(ctx context.Context) ([]domain.IngestionRecord, error) {
	return s.store.Ingestions(ctx)
}
