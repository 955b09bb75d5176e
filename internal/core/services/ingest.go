package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

const (
	// upsertBatchSize bounds the number of records per embed/upsert
	// call to respect backend payload limits.
	upsertBatchSize = 50

	// contextCharBudget caps prompt context blocks in characters.
	contextCharBudget = 12000

	// summaryDocLimit caps how many documents feed the summary prompt.
	summaryDocLimit = 5

	defaultMaxTokens   = 512
	defaultTemperature = 0.3
)

// Sentinel result strings shown to the user when a stage degrades.
const (
	summaryNoContent = "No content."
	summaryFailed    = "Summary generation failed."
)

// IngestService runs the ingestion pipeline: fetch documents from a
// content source, split them into chunks, embed and store the chunks,
// then summarise what was ingested.
type IngestService struct {
	content  driven.ContentSource
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	llm      driven.LLMService
	prompts  driven.PromptStore
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	content driven.ContentSource,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
) *IngestService {
	return &IngestService{
		content:  content,
		pipeline: pipeline,
		embedder: embedder,
		vectors:  vectors,
		llm:      llm,
		prompts:  prompts,
	}
}

// Ingest runs the pipeline for one URL.
//
// Collaborator failures degrade the result rather than abort it: an
// empty fetch yields (0, "No content."), a failed chunk batch is
// logged and skipped with the remaining batches still attempted, and
// a failed summary yields a fixed sentinel string. The returned error
// is reserved for invalid input.
func (s *IngestService) Ingest(ctx context.Context, url string, mode domain.FetchMode) (*domain.IngestResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrInvalidInput)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: fetch mode %q", domain.ErrInvalidInput, mode)
	}

	logger.Section("Ingestion")
	logger.Info("Fetching %s (%s)", url, mode)

	docs, err := s.content.Fetch(ctx, url, mode)
	if err != nil {
		logger.Warn("Fetch failed: %v", err)
		docs = nil
	}
	if len(docs) == 0 {
		logger.Info("No documents retrieved")
		return &domain.IngestResult{Summary: summaryNoContent}, nil
	}
	logger.Info("Fetched %d documents", len(docs))

	records := s.split(ctx, docs)
	logger.Info("Split into %d chunks", len(records))

	stored := s.store(ctx, records)
	logger.Info("Stored %d of %d chunks", stored, len(records))

	summary := s.summarise(ctx, docs)

	return &domain.IngestResult{
		DocumentsFetched: len(docs),
		ChunksStored:     stored,
		ChunksTotal:      len(records),
		Summary:          summary,
	}, nil
}

// split runs every document through the processing pipeline and
// converts the resulting chunks into vector records with sanitized
// metadata. A document the pipeline rejects is skipped.
func (s *IngestService) split(ctx context.Context, docs []domain.Document) []domain.VectorRecord {
	var records []domain.VectorRecord

	for i := range docs {
		doc := &docs[i]

		chunks, err := s.pipeline.Process(ctx, doc)
		if err != nil {
			logger.Warn("Processing %s failed: %v", doc.URI, err)
			continue
		}

		for _, chunk := range chunks {
			meta := domain.SanitizeMetadata(chunk.Metadata)
			meta["url"] = domain.String(doc.URI)
			meta["position"] = domain.Number(float64(chunk.Position))
			if doc.Title != "" {
				meta["title"] = domain.String(doc.Title)
			}

			records = append(records, domain.VectorRecord{
				ID:       recordID(doc.URI, chunk.Text),
				Text:     chunk.Text,
				Metadata: meta,
			})
		}
	}

	return records
}

// store embeds and upserts records in fixed-size batches. Every batch
// is attempted once; a failed batch is logged and skipped without
// aborting its siblings. Returns the number of records written.
func (s *IngestService) store(ctx context.Context, records []domain.VectorRecord) int {
	if len(records) == 0 {
		return 0
	}

	if err := s.vectors.EnsureCollection(ctx, s.embedder.Dimensions()); err != nil {
		logger.Warn("Collection unavailable: %v", err)
		return 0
	}

	stored := 0
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		batchNum := start/upsertBatchSize + 1

		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = rec.Text
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Batch %d embedding failed: %v", batchNum, err)
			continue
		}
		for i := range batch {
			batch[i].Embedding = embeddings[i]
		}

		ids, err := s.vectors.Upsert(ctx, batch)
		if err != nil {
			logger.Warn("Batch %d upsert failed: %v", batchNum, err)
			continue
		}

		logger.Debug("Batch %d: stored %d records", batchNum, len(ids))
		stored += len(ids)
	}

	return stored
}

// summarise generates a short summary from at most the first
// summaryDocLimit documents, truncated to the context budget.
// Failure degrades to a fixed sentinel string.
func (s *IngestService) summarise(ctx context.Context, docs []domain.Document) string {
	limit := summaryDocLimit
	if len(docs) < limit {
		limit = len(docs)
	}

	parts := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		parts = append(parts, docs[i].Text)
	}
	combined := truncate(strings.Join(parts, "\n\n"), contextCharBudget)

	tpl, err := s.prompts.Load(driven.PromptSummarise)
	if err != nil {
		logger.Warn("Summary prompt unavailable: %v", err)
		return summaryFailed
	}

	out, err := s.llm.Generate(ctx, fmt.Sprintf(tpl, combined), driven.GenerateOptions{
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		logger.Warn("Summary generation failed: %v", err)
		return summaryFailed
	}

	return strings.TrimSpace(out)
}

// recordID derives a deterministic id from the document URI and chunk
// text, so re-ingesting an unchanged page overwrites its own records
// instead of duplicating them.
func recordID(uri, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri+"\x00"+text)).String()
}

// truncate cuts s to at most limit bytes, backing up to a rune
// boundary so the cut never splits a multi-byte character.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
