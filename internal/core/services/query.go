package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.QueryService = (*AnswerService)(nil)

// defaultTopK is the number of records retrieved per question.
const defaultTopK = 4

// Sentinel answer strings shown when a stage degrades.
const (
	answerNoRelevantInfo = "No relevant info found."
	answerFailed         = "Error generating response."
)

// AnswerService answers questions grounded in the ingested content:
// retrieve the most similar chunks, compose a bounded context block,
// and generate an answer constrained to that context.
type AnswerService struct {
	vectors driven.VectorStore
	llm     driven.LLMService
	prompts driven.PromptStore
	topK    int
}

// NewAnswerService creates a new answer service. topK <= 0 selects
// the default.
func NewAnswerService(
	vectors driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AnswerService{
		vectors: vectors,
		llm:     llm,
		prompts: prompts,
		topK:    topK,
	}
}

// Answer retrieves context for the question and generates a grounded
// answer.
//
// Zero retrieval hits short-circuit to a fixed "no relevant info"
// answer without calling the model. A retrieval failure degrades the
// same way. A generation failure yields a fixed sentinel answer with
// the retrieved sources still attached. The returned error is
// reserved for invalid input.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Question: %q", question)

	hits, err := s.vectors.SearchText(ctx, question, s.topK)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return &domain.Answer{Text: answerNoRelevantInfo}, nil
	}
	if len(hits) == 0 {
		logger.Info("No relevant records")
		return &domain.Answer{Text: answerNoRelevantInfo}, nil
	}
	logger.Info("Retrieved %d records", len(hits))

	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.Record.Text
	}
	contextBlock := truncate(strings.Join(parts, "\n\n"), contextCharBudget)

	tpl, err := s.prompts.Load(driven.PromptGroundedAnswer)
	if err != nil {
		logger.Warn("Answer prompt unavailable: %v", err)
		return &domain.Answer{Text: answerFailed, Sources: hits}, nil
	}

	out, err := s.llm.Generate(ctx, fmt.Sprintf(tpl, contextBlock, question), driven.GenerateOptions{
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return &domain.Answer{Text: answerFailed, Sources: hits}, nil
	}

	return &domain.Answer{Text: strings.TrimSpace(out), Sources: hits}, nil
}
