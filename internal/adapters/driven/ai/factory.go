// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/openai"
	groqllm "github.com/quarry-labs/quarry-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/quarry-labs/quarry-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/quarry-labs/quarry-cli/internal/adapters/driven/llm/openai"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the appropriate embedding service
// based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimension,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimension,
		})

	case domain.AIProviderGroq:
		// Groq does not offer an embeddings API.
		return nil, fmt.Errorf("%w: groq does not support embeddings, use ollama or openai",
			domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s",
			domain.ErrConfiguration, settings.Provider)
	}
}

// CreateLLMService creates the appropriate generation service based
// on settings.
func CreateLLMService(settings *domain.GenerationSettings) (driven.LLMService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderGroq:
		return groqllm.NewLLMService(groqllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported generation provider: %s",
			domain.ErrConfiguration, settings.Provider)
	}
}

// PingEmbedding validates connectivity to the embedding backend.
func PingEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// PingLLM validates connectivity to the generation backend.
func PingLLM(ctx context.Context, svc driven.LLMService) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable: %v", domain.ErrGenerationUnavailable, err)
	}
	return nil
}
