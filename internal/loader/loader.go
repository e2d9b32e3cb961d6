package loader

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"news_rag/internal/chunker"
	"news_rag/internal/document"
	"news_rag/internal/errs"
)

// DefaultConcurrency bounds parallel fetches within one Load call.
const DefaultConcurrency = 4

// Options mirror the knobs of a single load call.
type Options struct {
	SavePath     string // optional document cache, appended to
	Chunk        bool
	ChunkModel   string
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int // parallel fetches, 0 means DefaultConcurrency
}

// DefaultOptions chunks with the gpt-3.5-turbo vocabulary into 500-token chunks.
func DefaultOptions() Options {
	return Options{
		Chunk:        true,
		ChunkModel:   "gpt-3.5-turbo",
		ChunkSize:    500,
		ChunkOverlap: 50,
	}
}

type Loader struct {
	fetcher   Fetcher
	splitters *chunker.Factory
	log       *zap.SugaredLogger
}

func New(fetcher Fetcher, splitters *chunker.Factory, log *zap.SugaredLogger) *Loader {
	if splitters == nil {
		splitters = chunker.NewFactory()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{fetcher: fetcher, splitters: splitters, log: log}
}

// Load fetches every source in order, optionally chunks the result and
// appends it to opts.SavePath. A failed fetch aborts the whole call before
// anything is chunked or saved.
func (l *Loader) Load(ctx context.Context, opts Options, urls ...string) ([]document.Document, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no urls to load", errs.ErrConfiguration)
	}

	docs, err := l.fetchAll(ctx, opts.Concurrency, urls)
	if err != nil {
		return nil, err
	}

	if opts.Chunk {
		splitter, err := l.splitters.NewSplitter(chunker.Config{
			ModelName:    opts.ChunkModel,
			ChunkSize:    opts.ChunkSize,
			ChunkOverlap: opts.ChunkOverlap,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create splitter: %w", err)
		}
		docs = splitter.SplitDocuments(docs)
		l.log.Infof("📦 Split %d source(s) into %d chunks", len(urls), len(docs))
	}

	if opts.SavePath != "" {
		if err := document.SaveAppend(opts.SavePath, docs); err != nil {
			return nil, fmt.Errorf("failed to save documents: %w", err)
		}
		l.log.Debugf("💾 Saved %d documents to %s", len(docs), opts.SavePath)
	}

	return docs, nil
}

// fetchAll fetches urls with at most concurrency requests in flight. The
// result keeps the order of urls; the first failure cancels the rest.
func (l *Loader) fetchAll(ctx context.Context, concurrency int, urls []string) ([]document.Document, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	docs := make([]document.Document, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			doc, err := l.fetcher.Fetch(gctx, url)
			if err != nil {
				return err
			}
			l.log.Infof("📄 Fetched %s: %d bytes", url, len(doc.Content))
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// LoadFromFile returns the documents previously saved at path.
func LoadFromFile(path string) ([]document.Document, error) {
	return document.LoadFromFile(path)
}

// SplitURLs parses a comma separated list of sources.
func SplitURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
