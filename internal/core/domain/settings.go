package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or
// generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding gateway configuration.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider AIProvider

	// Model is the embedding model identifier.
	Model string

	// APIKey authenticates cloud providers. Empty for local ones.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Dimension is the embedding vector size. Must match the
	// collection the vectors are stored in.
	Dimension int
}

// Validate returns ErrConfiguration when the settings cannot produce
// a working gateway.
func (s *EmbeddingSettings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrConfiguration, s.Provider)
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return fmt.Errorf("%w: embedding provider %s requires an API key", ErrConfiguration, s.Provider)
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: embedding dimension must be positive", ErrConfiguration)
	}
	return nil
}

// GenerationSettings holds generation gateway configuration.
type GenerationSettings struct {
	// Provider selects the generation backend.
	Provider AIProvider

	// Model is the generation model identifier.
	Model string

	// APIKey authenticates cloud providers. Empty for local ones.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// MaxTokens caps completion length per call.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Validate returns ErrConfiguration when the settings cannot produce
// a working gateway.
func (s *GenerationSettings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown generation provider %q", ErrConfiguration, s.Provider)
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return fmt.Errorf("%w: generation provider %s requires an API key", ErrConfiguration, s.Provider)
	}
	return nil
}

// ScraperSettings holds content source configuration.
type ScraperSettings struct {
	// APIKey authenticates against the scraping backend. Required.
	APIKey string

	// BaseURL overrides the scraping API endpoint.
	BaseURL string

	// CrawlLimit caps the number of pages fetched in full-site mode.
	CrawlLimit int
}

// Validate returns ErrConfiguration when the settings cannot produce
// a working gateway.
func (s *ScraperSettings) Validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("%w: scraper API key is required", ErrConfiguration)
	}
	return nil
}

// VectorSettings holds vector index configuration.
type VectorSettings struct {
	// Addr is the index server address (host:port).
	Addr string

	// Index is the logical index name.
	Index string

	// Namespace partitions records within the index. The collection
	// is the (index, namespace) pair.
	Namespace string
}

// CollectionName returns the backend collection name for the
// (index, namespace) pair.
func (s *VectorSettings) CollectionName() string {
	if s.Namespace == "" {
		return s.Index
	}
	return s.Index + "__" + s.Namespace
}

// Validate returns ErrConfiguration when the settings cannot produce
// a working gateway.
func (s *VectorSettings) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("%w: vector index address is required", ErrConfiguration)
	}
	if s.Index == "" {
		return fmt.Errorf("%w: vector index name is required", ErrConfiguration)
	}
	return nil
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// Overlap is the number of characters consecutive chunks share.
	Overlap int
}

// Default chunking values, matching the retrieval unit the pipeline
// was tuned for.
const (
	// DefaultChunkSize is the default chunk length.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the default overlap between chunks.
	DefaultChunkOverlap = 100
)

// Validate returns ErrConfiguration unless chunk_size > overlap >= 0.
func (s *ChunkingSettings) Validate() error {
	if s.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative", ErrConfiguration)
	}
	if s.ChunkSize <= s.Overlap {
		return fmt.Errorf("%w: chunk size (%d) must exceed overlap (%d)",
			ErrConfiguration, s.ChunkSize, s.Overlap)
	}
	return nil
}
