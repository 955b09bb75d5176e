package driven

import "context"

// LLMService produces text completions for summaries and grounded
// answers.
//
// Implementations may include:
//   - Groq (OpenAI-compatible chat completions)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a completion for the prompt. The request
	// always pairs a fixed system instruction with the prompt as the
	// user turn. Failures are returned as errors wrapping
	// domain.ErrGenerationUnavailable; the orchestrators map them to
	// user-safe sentinel strings and never retry at their layer.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before committing to a pipeline.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
