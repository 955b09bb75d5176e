// Command quarry is a retrieval-augmented generation CLI: it ingests
// web content into a vector index and answers questions grounded in
// what was ingested.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/ai"
	configfile "github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/content/firecrawl"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/storage/memory"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/storage/sqlite"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/vector/qdrant"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/cli"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/services"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

// run carries the real bootstrap so deferred cleanup still fires on
// the failure path.
func run() int {
	// A .env file is optional; environment wins over the config file.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load prompts: %v\n", err)
		return 1
	}

	sessionStore := openSessionStore()
	defer sessionStore.Close()

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetSessionService(services.NewHistoryService(sessionStore))

	wirePipeline(configStore, promptStore, sessionStore)

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// wirePipeline builds the provider-backed services. A provider that
// cannot be constructed leaves its service unset; the affected
// commands report that instead of failing at startup.
func wirePipeline(configStore driven.ConfigStore, promptStore driven.PromptStore, _ driven.SessionStore) {
	embedder, err := ai.CreateEmbeddingService(embeddingSettings(configStore))
	if err != nil {
		logger.Warn("embedding service unavailable: %v", err)
		return
	}

	llm, err := ai.CreateLLMService(generationSettings(configStore))
	if err != nil {
		logger.Warn("generation service unavailable: %v", err)
		return
	}

	cli.SetHealthChecks([]cli.HealthCheck{
		{Name: "embedding (" + embedder.ModelName() + ")", Check: func(ctx context.Context) error {
			return ai.PingEmbedding(ctx, embedder)
		}},
		{Name: "generation (" + llm.ModelName() + ")", Check: func(ctx context.Context) error {
			return ai.PingLLM(ctx, llm)
		}},
	})

	vectorCfg := vectorSettings(configStore)
	vectors, err := qdrant.New(qdrant.Config{
		Addr:       vectorCfg.Addr,
		Collection: vectorCfg.CollectionName(),
	}, embedder)
	if err != nil {
		logger.Warn("vector store unavailable: %v", err)
		return
	}

	cli.SetQueryService(services.NewAnswerService(vectors, llm, promptStore,
		configStore.GetInt("query.top_k")))

	scraperCfg := scraperSettings(configStore)
	if err := scraperCfg.Validate(); err != nil {
		logger.Warn("content source unavailable: %v", err)
		return
	}

	content, err := firecrawl.New(firecrawl.Config{
		APIKey:     scraperCfg.APIKey,
		BaseURL:    scraperCfg.BaseURL,
		CrawlLimit: scraperCfg.CrawlLimit,
	})
	if err != nil {
		logger.Warn("content source unavailable: %v", err)
		return
	}

	pipeline, err := buildPipeline(configStore)
	if err != nil {
		logger.Warn("chunking pipeline unavailable: %v", err)
		return
	}

	cli.SetIngestService(services.NewIngestService(content, pipeline, embedder, vectors, llm, promptStore))
}

// buildPipeline assembles the post-processing pipeline from the
// registered processors.
func buildPipeline(cfg driven.ConfigStore) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerCfg := map[string]any{}
	if size := cfg.GetInt("chunking.chunk_size"); size > 0 {
		chunkerCfg["chunk_size"] = size
	}
	if overlap := cfg.GetInt("chunking.overlap"); overlap > 0 {
		chunkerCfg["overlap"] = overlap
	}

	chunker, err := registry.Build("chunker", chunkerCfg)
	if err != nil {
		return nil, err
	}
	return postprocessors.NewPipeline(chunker), nil
}

// openSessionStore opens the SQLite session store, falling back to an
// in-memory store when the database cannot be opened.
func openSessionStore() driven.SessionStore {
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("session database unavailable, history will not persist: %v", err)
		return memory.NewSessionStore()
	}
	return store
}

func embeddingSettings(cfg driven.ConfigStore) *domain.EmbeddingSettings {
	provider := envOr("EMBEDDING_PROVIDER", cfg.GetString("embedding.provider"))
	if provider == "" {
		provider = domain.AIProviderOllama.String()
	}

	dimension := envInt("EMBEDDING_DIMENSION", cfg.GetInt("embedding.dimension"))
	if dimension <= 0 {
		dimension = 768
	}

	return &domain.EmbeddingSettings{
		Provider:  domain.AIProvider(provider),
		Model:     envOr("EMBEDDING_MODEL", cfg.GetString("embedding.model")),
		APIKey:    envOr("OPENAI_API_KEY", cfg.GetString("openai.api_key")),
		BaseURL:   envOr("EMBEDDING_BASE_URL", cfg.GetString("embedding.base_url")),
		Dimension: dimension,
	}
}

func generationSettings(cfg driven.ConfigStore) *domain.GenerationSettings {
	provider := envOr("GENERATION_PROVIDER", cfg.GetString("generation.provider"))
	if provider == "" {
		provider = domain.AIProviderGroq.String()
	}

	apiKey := ""
	switch domain.AIProvider(provider) {
	case domain.AIProviderGroq:
		apiKey = envOr("GROQ_API_KEY", cfg.GetString("groq.api_key"))
	case domain.AIProviderOpenAI:
		apiKey = envOr("OPENAI_API_KEY", cfg.GetString("openai.api_key"))
	}

	return &domain.GenerationSettings{
		Provider: domain.AIProvider(provider),
		Model:    envOr("GENERATION_MODEL", cfg.GetString("generation.model")),
		APIKey:   apiKey,
		BaseURL:  envOr("GENERATION_BASE_URL", cfg.GetString("generation.base_url")),
	}
}

func vectorSettings(cfg driven.ConfigStore) *domain.VectorSettings {
	index := envOr("QUARRY_INDEX", cfg.GetString("vector.index"))
	if index == "" {
		index = "quarry"
	}

	return &domain.VectorSettings{
		Addr:      envOr("QDRANT_ADDR", cfg.GetString("vector.addr")),
		Index:     index,
		Namespace: envOr("QUARRY_NAMESPACE", cfg.GetString("vector.namespace")),
	}
}

func scraperSettings(cfg driven.ConfigStore) *domain.ScraperSettings {
	return &domain.ScraperSettings{
		APIKey:     envOr("FIRECRAWL_API_KEY", cfg.GetString("firecrawl.api_key")),
		BaseURL:    envOr("FIRECRAWL_BASE_URL", cfg.GetString("firecrawl.base_url")),
		CrawlLimit: envInt("FIRECRAWL_CRAWL_LIMIT", cfg.GetInt("firecrawl.crawl_limit")),
	}
}

// envOr returns the environment value when set, else the fallback.
func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// envInt returns the environment value parsed as int when set and
// valid, else the fallback.
func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
