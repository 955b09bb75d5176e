package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestSessionAppend_InvalidRole(t *testing.T) {
	svc := NewHistoryService(&mockSessionStore{})

	err := svc.Append(context.Background(), "system", "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionAppend_EmptyContent(t *testing.T) {
	svc := NewHistoryService(&mockSessionStore{})

	err := svc.Append(context.Background(), domain.RoleUser, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionAppend_AssignsIDAndTimestamp(t *testing.T) {
	store := &mockSessionStore{}
	svc := NewHistoryService(store)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Append(context.Background(), domain.RoleUser, "hello"))
	require.NoError(t, svc.Append(context.Background(), domain.RoleAssistant, "hi there"))

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.NotEmpty(t, history[0].ID)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, fixed, history[0].CreatedAt)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestSessionClear(t *testing.T) {
	store := &mockSessionStore{}
	svc := NewHistoryService(store)

	require.NoError(t, svc.Append(context.Background(), domain.RoleUser, "hello"))
	require.NoError(t, svc.Clear(context.Background()))

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionRecordIngestion_NilResult(t *testing.T) {
	svc := NewHistoryService(&mockSessionStore{})

	err := svc.RecordIngestion(context.Background(), "https://example.com", domain.FetchSinglePage, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionRecordIngestion(t *testing.T) {
	store := &mockSessionStore{}
	svc := NewHistoryService(store)

	result := &domain.IngestResult{
		DocumentsFetched: 3,
		ChunksStored:     42,
		ChunksTotal:      45,
		Summary:          "A summary.",
	}
	require.NoError(t, svc.RecordIngestion(context.Background(), "https://example.com", domain.FetchFullSite, result))

	records, err := svc.Ingestions(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, domain.FetchFullSite, rec.Mode)
	assert.Equal(t, 3, rec.DocumentsFetched)
	assert.Equal(t, 42, rec.ChunksStored)
	assert.Equal(t, "A summary.", rec.Summary)
	assert.False(t, rec.CreatedAt.IsZero())
}
