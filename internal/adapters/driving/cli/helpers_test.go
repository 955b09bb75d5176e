package cli

import (
	"context"
	"time"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// mockIngestService returns a fixed result for every URL.
type mockIngestService struct {
	result    *domain.IngestResult
	err       error
	lastURL   string
	lastMode  domain.FetchMode
	callCount int
}

func (m *mockIngestService) Ingest(_ context.Context, url string, mode domain.FetchMode) (*domain.IngestResult, error) {
	m.callCount++
	m.lastURL = url
	m.lastMode = mode
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockQueryService returns a fixed answer for every question.
type mockQueryService struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
}

func (m *mockQueryService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.lastQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockSessionService records calls in memory.
type mockSessionService struct {
	messages   []domain.ChatMessage
	ingestions []domain.IngestionRecord
	appendErr  error
}

func (m *mockSessionService) Append(_ context.Context, role, content string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages = append(m.messages, domain.ChatMessage{
		Role: role, Content: content, CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockSessionService) History(_ context.Context) ([]domain.ChatMessage, error) {
	return m.messages, nil
}

func (m *mockSessionService) Clear(_ context.Context) error {
	m.messages = nil
	return nil
}

func (m *mockSessionService) RecordIngestion(_ context.Context, url string, mode domain.FetchMode, result *domain.IngestResult) error {
	m.ingestions = append(m.ingestions, domain.IngestionRecord{
		URL: url, Mode: mode,
		DocumentsFetched: result.DocumentsFetched,
		ChunksStored:     result.ChunksStored,
		Summary:          result.Summary,
		CreatedAt:        time.Now(),
	})
	return nil
}

func (m *mockSessionService) Ingestions(_ context.Context) ([]domain.IngestionRecord, error) {
	out := make([]domain.IngestionRecord, 0, len(m.ingestions))
	for i := len(m.ingestions) - 1; i >= 0; i-- {
		out = append(out, m.ingestions[i])
	}
	return out, nil
}

// mockConfigStore is an in-memory config store.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/quarry-test/config.toml"
}

// setupTestServices wires mock services into the package vars and
// returns a cleanup function restoring the previous state.
func setupTestServices() func() {
	oldIngest := ingestService
	oldQuery := queryService
	oldSession := sessionService
	oldConfig := configStore

	ingestService = &mockIngestService{
		result: &domain.IngestResult{
			DocumentsFetched: 2,
			ChunksStored:     24,
			ChunksTotal:      24,
			Summary:          "A short summary.",
		},
	}
	queryService = &mockQueryService{
		answer: &domain.Answer{
			Text: "A grounded answer.",
			Sources: []domain.ScoredRecord{
				{
					Record: domain.VectorRecord{
						ID:   "rec-1",
						Text: "chunk",
						Metadata: domain.Metadata{
							"url": domain.String("https://example.com/page"),
						},
					},
					Score: 0.91,
				},
			},
		},
	}
	sessionService = &mockSessionService{}
	configStore = newMockConfigStore()

	return func() {
		ingestService = oldIngest
		queryService = oldQuery
		sessionService = oldSession
		configStore = oldConfig
	}
}
