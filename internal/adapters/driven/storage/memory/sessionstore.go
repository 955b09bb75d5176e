// Package memory provides in-memory implementations of driven port
// interfaces, used for tests and as a fallback when no database is
// available.
package memory

import (
	"context"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Nothing survives process exit.
type SessionStore struct {
	mu         sync.RWMutex
	messages   []domain.ChatMessage
	ingestions []domain.IngestionRecord
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// AppendMessage records one chat turn.
func (s *SessionStore) AppendMessage(_ context.Context, msg domain.ChatMessage) error {
	if msg.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns the chat history in chronological order.
func (s *SessionStore) Messages(_ context.Context) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ChatMessage, len(s.messages))
	copy(result, s.messages)
	return result, nil
}

// ClearMessages deletes the chat history.
func (s *SessionStore) ClearMessages(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	return nil
}

// RecordIngestion appends one entry to the ingestion log.
func (s *SessionStore) RecordIngestion(_ context.Context, rec domain.IngestionRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingestions = append(s.ingestions, rec)
	return nil
}

// Ingestions returns the ingestion log, newest first.
func (s *SessionStore) Ingestions(_ context.Context) ([]domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.IngestionRecord, 0, len(s.ingestions))
	for i := len(s.ingestions) - 1; i >= 0; i-- {
		result = append(result, s.ingestions[i])
	}
	return result, nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}
