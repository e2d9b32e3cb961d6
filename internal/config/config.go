package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"news_rag/internal/errs"
)

type Config struct {
	IndexDir         string        `env:"INDEX_DIR" envDefault:"./db"`
	DocsCache        string        `env:"DOCS_CACHE"`
	CompletionModel  string        `env:"COMPLETION_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel   string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	OpenAIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OllamaURL        string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	TopK             int           `env:"TOP_K" envDefault:"10"`
	ChunkSize        int           `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap     int           `env:"CHUNK_OVERLAP" envDefault:"50"`
	NumQueries       int           `env:"NUM_QUERIES" envDefault:"3"`
	ContextCacheSize int           `env:"CONTEXT_CACHE_SIZE" envDefault:"256"`
	Temperature      float32       `env:"ANSWER_TEMPERATURE" envDefault:"0.7"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	FetchRetries     int           `env:"FETCH_RETRIES" envDefault:"2"`
	FetchRate        float64       `env:"FETCH_RATE" envDefault:"4"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY" envDefault:"4"`
	UserAgent        string        `env:"USER_AGENT" envDefault:"news-rag/1.0"`
	PromptLang       string        `env:"PROMPT_LANG" envDefault:"en"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Init(cfg interface{}) error {
	return env.Parse(cfg)
}

// Validate checks the numeric knobs that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	switch {
	case c.TopK <= 0:
		return fmt.Errorf("%w: TOP_K must be positive, got %d", errs.ErrConfiguration, c.TopK)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: CHUNK_SIZE must be positive, got %d", errs.ErrConfiguration, c.ChunkSize)
	case c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize:
		return fmt.Errorf("%w: CHUNK_OVERLAP must be in [0, %d), got %d",
			errs.ErrConfiguration, c.ChunkSize, c.ChunkOverlap)
	case c.NumQueries <= 0:
		return fmt.Errorf("%w: NUM_QUERIES must be positive, got %d", errs.ErrConfiguration, c.NumQueries)
	case c.PromptLang != "en" && c.PromptLang != "pt":
		return fmt.Errorf("%w: PROMPT_LANG must be en or pt, got %q", errs.ErrConfiguration, c.PromptLang)
	}
	return nil
}
