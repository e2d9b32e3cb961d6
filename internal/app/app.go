package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"news_rag/internal/chunker"
	"news_rag/internal/config"
	"news_rag/internal/document"
	"news_rag/internal/errs"
	"news_rag/internal/indexer"
	"news_rag/internal/llm"
	"news_rag/internal/loader"
	"news_rag/internal/rag"
)

// Session is the question-answering session the console drives.
type Session interface {
	AddDocuments(ctx context.Context, urls ...string) (int, error)
	Query(ctx context.Context, question string) (string, error)
	RetrievedContext(question string) ([]document.Document, bool)
	State() rag.State
	Index() *indexer.Index
}

type App struct {
	cfg     *config.Config
	session Session
	out     io.Writer
	log     *zap.SugaredLogger

	lastQuestion string
}

// New wires the real collaborators from cfg. An index already persisted in
// cfg.IndexDir is reopened so earlier ingestion survives restarts.
func New(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if models := OllamaModels(cfg); len(models) > 0 {
		if err := llm.EnsureOllamaModels(ctx, cfg.OllamaURL, log, models...); err != nil {
			return nil, fmt.Errorf("ollama model check failed: %w", err)
		}
	}

	completer, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, log)
	if err != nil {
		return nil, err
	}

	fetcher := &loader.Router{
		Web: loader.NewWebFetcher(loader.WebFetcherConfig{
			Timeout:           cfg.FetchTimeout,
			RetryCount:        cfg.FetchRetries,
			UserAgent:         cfg.UserAgent,
			RequestsPerSecond: cfg.FetchRate,
		}),
		File: loader.FileFetcher{},
	}
	embeddings := indexer.Embeddings{
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OllamaURL:     cfg.OllamaURL,
	}

	deps := rag.Deps{
		Loader:    loader.New(fetcher, chunker.NewFactory(), log),
		Indexer:   indexer.New(embeddings, cfg.EmbeddingModel, log),
		Completer: completer,
	}

	session, err := rag.FromDB(cfg.IndexDir, SessionConfig(cfg), deps, rag.WithLogger(log))
	if errors.Is(err, errs.ErrNotFound) {
		log.Infof("No existing index in %s, starting fresh", cfg.IndexDir)
		session, err = rag.New(SessionConfig(cfg), deps, rag.WithLogger(log))
	}
	if err != nil {
		return nil, err
	}

	return NewWithSession(cfg, session, os.Stdout, log), nil
}

// OllamaModels lists the configured models served by Ollama: the embedding
// model unless it is an OpenAI one, and the completion model when
// OPENAI_BASE_URL points at the Ollama host.
func OllamaModels(cfg *config.Config) []string {
	var models []string
	if !strings.HasPrefix(cfg.EmbeddingModel, "text-embedding-") {
		models = append(models, cfg.EmbeddingModel)
	}
	if sameHost(cfg.OpenAIBaseURL, cfg.OllamaURL) && cfg.CompletionModel != cfg.EmbeddingModel {
		models = append(models, cfg.CompletionModel)
	}
	return models
}

func sameHost(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Host != "" && strings.EqualFold(ua.Host, ub.Host)
}

// NewWithSession builds a console over an existing session writing to out.
func NewWithSession(cfg *config.Config, session Session, out io.Writer, log *zap.SugaredLogger) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &App{cfg: cfg, session: session, out: out, log: log}
}

// SessionConfig maps the environment configuration onto session knobs.
func SessionConfig(cfg *config.Config) rag.Config {
	return rag.Config{
		CompletionModel:  cfg.CompletionModel,
		EmbeddingModel:   cfg.EmbeddingModel,
		TopK:             cfg.TopK,
		PersistDir:       cfg.IndexDir,
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		DocsCache:        cfg.DocsCache,
		FetchConcurrency: cfg.FetchConcurrency,
		NumQueries:       cfg.NumQueries,
		Temperature:      cfg.Temperature,
		PromptLang:       cfg.PromptLang,
		ContextCacheSize: cfg.ContextCacheSize,
	}
}

// Initialize ingests urls and reports the models in use.
func (a *App) Initialize(ctx context.Context, urls []string) (string, error) {
	if _, err := a.session.AddDocuments(ctx, urls...); err != nil {
		return "", err
	}
	return fmt.Sprintf("Models initialized with completion_model: %s and embedding_model: %s",
		a.cfg.CompletionModel, a.cfg.EmbeddingModel), nil
}

// Add ingests a comma separated list of sources.
func (a *App) Add(ctx context.Context, links string) (string, error) {
	urls := loader.SplitURLs(links)
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: no urls given", errs.ErrConfiguration)
	}
	if _, err := a.session.AddDocuments(ctx, urls...); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %d document(s) to the RAG.", len(urls)), nil
}

// Ask answers question and remembers it for Context.
func (a *App) Ask(ctx context.Context, question string) (string, error) {
	answer, err := a.session.Query(ctx, question)
	if err != nil {
		return "", err
	}
	a.lastQuestion = question
	return answer, nil
}

// Context returns the raw context retrieved for question, or for the last
// question asked when question is empty.
func (a *App) Context(question string) (string, error) {
	if a.session.State() == rag.Uninitialized {
		return "", errs.ErrNotReady
	}
	if question == "" {
		question = a.lastQuestion
	}
	docs, _ := a.session.RetrievedContext(question)
	text := rag.ContextText(docs)
	if text == "" {
		return "No context found.", nil
	}
	return text, nil
}

// Export writes a snapshot of the current index to path.
func (a *App) Export(path string) error {
	index := a.session.Index()
	if index == nil {
		return errs.ErrNotReady
	}
	return index.Export(path)
}

// Status renders err as the short message shown to the user.
func Status(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotReady):
		return "Please initialize the models first."
	case errors.Is(err, errs.ErrConfiguration):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, errs.ErrNotFound):
		return fmt.Sprintf("Not found: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
