package indexer

import (
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"

	"news_rag/internal/errs"
)

// EmbeddingProvider resolves an embedding model name to a chromem embedding function.
type EmbeddingProvider interface {
	EmbeddingFunc(model string) (chromem.EmbeddingFunc, error)
}

// Embeddings routes OpenAI embedding models (text-embedding-*) to the OpenAI
// API, or to an OpenAI-compatible endpoint when OpenAIBaseURL is set, and every
// other model name to Ollama.
type Embeddings struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OllamaURL     string
}

func (e Embeddings) EmbeddingFunc(model string) (chromem.EmbeddingFunc, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: empty embedding model", errs.ErrConfiguration)
	}

	if strings.HasPrefix(model, "text-embedding-") {
		if e.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for %s", errs.ErrConfiguration, model)
		}
		if e.OpenAIBaseURL != "" {
			return chromem.NewEmbeddingFuncOpenAICompat(e.OpenAIBaseURL, e.OpenAIKey, model, nil), nil
		}
		return chromem.NewEmbeddingFuncOpenAI(e.OpenAIKey, chromem.EmbeddingModelOpenAI(model)), nil
	}

	ollamaURL := e.OllamaURL
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	return chromem.NewEmbeddingFuncOllama(model, strings.TrimRight(ollamaURL, "/")+"/api"), nil
}
