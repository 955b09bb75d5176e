package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockContentSource implements driven.ContentSource for testing.
type mockContentSource struct {
	docs     []domain.Document
	fetchErr error
	calls    int
}

func (m *mockContentSource) Fetch(_ context.Context, _ string, _ domain.FetchMode) ([]domain.Document, error) {
	m.calls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.docs, nil
}

func (m *mockContentSource) Close() error { return nil }

// mockPipeline implements driven.PostProcessorPipeline for testing.
// It produces chunksPerDoc chunks per document, each carrying a copy
// of the document metadata.
type mockPipeline struct {
	chunksPerDoc int
	processErr   error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.processErr != nil {
		return nil, m.processErr
	}

	n := m.chunksPerDoc
	if n <= 0 {
		n = 1
	}

	chunks := make([]domain.Chunk, n)
	for i := 0; i < n; i++ {
		meta := make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		chunks[i] = domain.Chunk{
			ID:          fmt.Sprintf("%s-chunk-%d", doc.URI, i),
			DocumentURI: doc.URI,
			Text:        fmt.Sprintf("%s [part %d]", doc.Text, i),
			Position:    i,
			Metadata:    meta,
		}
	}
	return chunks, nil
}

// mockEmbedder implements driven.EmbeddingService for testing.
// failOnBatch makes the nth EmbedBatch call (1-based) fail.
type mockEmbedder struct {
	dims        int
	embedErr    error
	failOnBatch int
	batchCalls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return make([]float32, m.Dimensions()), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failOnBatch > 0 && m.batchCalls == m.failOnBatch {
		return nil, domain.ErrEmbeddingUnavailable
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = make([]float32, m.Dimensions())
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 768
}

func (m *mockEmbedder) ModelName() string           { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore for testing.
// failOnUpsert makes the nth Upsert call (1-based) fail.
type mockVectorStore struct {
	ensureErr    error
	upsertErr    error
	searchErr    error
	hits         []domain.ScoredRecord
	failOnUpsert int

	ensureCalls int
	upsertCalls int
	searchCalls int
	upserted    [][]domain.VectorRecord
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, _ int) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockVectorStore) Upsert(_ context.Context, records []domain.VectorRecord) ([]string, error) {
	m.upsertCalls++
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	if m.failOnUpsert > 0 && m.upsertCalls == m.failOnUpsert {
		return nil, domain.ErrCollectionNotFound
	}
	m.upserted = append(m.upserted, records)
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids, nil
}

func (m *mockVectorStore) SearchText(_ context.Context, _ string, k int) ([]domain.ScoredRecord, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	reply       string
	generateErr error
	calls       int
	lastPrompt  string
	lastOpts    driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string           { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	overrides map[string]string
	loadErr   error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if tpl, ok := m.overrides[name]; ok {
		return tpl, nil
	}
	switch name {
	case driven.PromptSummarise:
		return "Summarize the following web content concisely.\n\nCONTENT:\n%s", nil
	case driven.PromptGroundedAnswer:
		return "CONTEXT:\n%s\n\nQUESTION:\n%s", nil
	}
	return "", fmt.Errorf("unknown prompt: %s", name)
}

func (m *mockPromptStore) Reload() {}

// mockSessionStore implements driven.SessionStore for testing.
type mockSessionStore struct {
	mu         sync.Mutex
	messages   []domain.ChatMessage
	ingestions []domain.IngestionRecord
	appendErr  error
}

func (m *mockSessionStore) AppendMessage(_ context.Context, msg domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockSessionStore) Messages(_ context.Context) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatMessage(nil), m.messages...), nil
}

func (m *mockSessionStore) ClearMessages(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	return nil
}

func (m *mockSessionStore) RecordIngestion(_ context.Context, rec domain.IngestionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestions = append(m.ingestions, rec)
	return nil
}

func (m *mockSessionStore) Ingestions(_ context.Context) ([]domain.IngestionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.IngestionRecord(nil), m.ingestions...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *mockSessionStore) Close() error { return nil }
