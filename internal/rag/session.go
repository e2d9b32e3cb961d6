package rag

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"news_rag/internal/document"
	"news_rag/internal/errs"
	"news_rag/internal/indexer"
	"news_rag/internal/llm"
	"news_rag/internal/loader"
	"news_rag/internal/retriever"
)

type State int

const (
	Uninitialized State = iota
	Indexed
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Indexed:
		return "indexed"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds the per-session knobs.
type Config struct {
	CompletionModel string
	EmbeddingModel  string
	TopK            int
	PersistDir      string

	ChunkSize        int
	ChunkOverlap     int
	DocsCache        string
	FetchConcurrency int

	NumQueries       int
	Temperature      float32
	PromptLang       string
	ContextCacheSize int
}

// DefaultConfig matches the models and sizes the corpus was tuned with.
func DefaultConfig() Config {
	return Config{
		CompletionModel:  "gpt-3.5-turbo",
		EmbeddingModel:   "text-embedding-3-small",
		TopK:             retriever.DefaultTopK,
		PersistDir:       "./db",
		ChunkSize:        500,
		ChunkOverlap:     50,
		NumQueries:       retriever.DefaultNumQueries,
		Temperature:      0.7,
		PromptLang:       "en",
		ContextCacheSize: 256,
	}
}

// DocumentLoader fetches and chunks sources.
type DocumentLoader interface {
	Load(ctx context.Context, opts loader.Options, urls ...string) ([]document.Document, error)
}

// Deps are the collaborators a session drives.
type Deps struct {
	Loader    DocumentLoader
	Indexer   *indexer.Indexer
	Completer llm.Completer
}

// RetrieverFactory builds the retriever for the current index.
type RetrieverFactory func(index *indexer.Index) retriever.Retriever

type Option func(*Session)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRetrieverFactory replaces the multi-query retriever built on every index change.
func WithRetrieverFactory(f RetrieverFactory) Option {
	return func(s *Session) { s.newRetriever = f }
}

// Session is a question-answering session over a growing document index.
// AddDocuments and Query may be called concurrently: queries share a read
// lock, adds hold the write lock for the whole load, index and rebuild.
type Session struct {
	cfg  Config
	deps Deps
	log  *zap.SugaredLogger

	newRetriever RetrieverFactory

	mu        sync.RWMutex
	index     *indexer.Index
	retriever retriever.Retriever
	chain     *Chain

	contexts *lru.Cache[string, []document.Document]
}

// New creates an uninitialized session.
func New(cfg Config, deps Deps, opts ...Option) (*Session, error) {
	if deps.Loader == nil || deps.Indexer == nil || deps.Completer == nil {
		return nil, fmt.Errorf("%w: loader, indexer and completer are required", errs.ErrConfiguration)
	}
	if cfg.ContextCacheSize <= 0 {
		cfg.ContextCacheSize = DefaultConfig().ContextCacheSize
	}

	contexts, err := lru.New[string, []document.Document](cfg.ContextCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create context cache: %w", err)
	}

	s := &Session{
		cfg:      cfg,
		deps:     deps,
		log:      zap.NewNop().Sugar(),
		contexts: contexts,
	}
	s.newRetriever = s.multiQueryRetriever
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromDB creates a session over the index persisted at path, ready to answer
// questions without any AddDocuments call.
func FromDB(path string, cfg Config, deps Deps, opts ...Option) (*Session, error) {
	s, err := New(cfg, deps, opts...)
	if err != nil {
		return nil, err
	}

	index, err := deps.Indexer.LoadDB(path, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.rebuild()
	return s, nil
}

// State reports how far the session has been initialized.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.index == nil:
		return Uninitialized
	case s.chain == nil:
		return Indexed
	}
	return Ready
}

// Index returns the current index, or nil before the first AddDocuments.
func (s *Session) Index() *indexer.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// AddDocuments loads urls, indexes their chunks and rebuilds the retriever and
// generation chain over the whole index. It returns the number of chunks added.
// Nothing is indexed when any source fails to load.
func (s *Session) AddDocuments(ctx context.Context, urls ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.deps.Loader.Load(ctx, loader.Options{
		SavePath:     s.cfg.DocsCache,
		Chunk:        true,
		ChunkModel:   s.cfg.CompletionModel,
		ChunkSize:    s.cfg.ChunkSize,
		ChunkOverlap: s.cfg.ChunkOverlap,
		Concurrency:  s.cfg.FetchConcurrency,
	}, urls...)
	if err != nil {
		return 0, err
	}

	if s.index == nil {
		index, err := s.deps.Indexer.CreateNewDB(ctx, docs, s.cfg.EmbeddingModel, s.cfg.PersistDir)
		if err != nil {
			return 0, err
		}
		s.index = index
	} else if _, err := s.deps.Indexer.AddDocumentsToDB(ctx, docs, indexer.ExistingIndex{Index: s.index}); err != nil {
		return 0, err
	}

	s.rebuild()
	s.log.Infof("✅ Indexed %d chunks from %d source(s)", len(docs), len(urls))
	return len(docs), nil
}

// rebuild recreates the retriever and chain from the current index. Callers hold mu.
func (s *Session) rebuild() {
	s.retriever = s.newRetriever(s.index)
	s.chain = &Chain{
		Retriever:    s.retriever,
		Completer:    s.deps.Completer,
		Model:        s.cfg.CompletionModel,
		SystemPrompt: SystemPrompt(s.cfg.PromptLang),
		Temperature:  s.cfg.Temperature,
	}
}

func (s *Session) multiQueryRetriever(index *indexer.Index) retriever.Retriever {
	return retriever.CreateRetrieverFromDB(index, s.deps.Completer, s.cfg.CompletionModel, s.cfg.TopK,
		retriever.WithNumQueries(s.cfg.NumQueries),
		retriever.WithLogger(s.log),
	)
}

// Query answers question from the indexed documents and records the
// retrieved context under question, replacing any earlier entry.
func (s *Session) Query(ctx context.Context, question string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.chain == nil {
		return "", fmt.Errorf("%w: no documents have been added, add documents before querying", errs.ErrNotReady)
	}

	res, err := s.chain.Invoke(ctx, question)
	if err != nil {
		return "", err
	}

	s.contexts.Add(question, res.Context)
	s.log.Debugw("answered", "question", question, "context_docs", len(res.Context))
	return res.Answer, nil
}

// RetrievedContext returns the documents retrieved by the latest Query of question.
func (s *Session) RetrievedContext(question string) ([]document.Document, bool) {
	return s.contexts.Get(question)
}
