package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"news_rag/internal/document"
	"news_rag/internal/errs"
)

// IndexSource names the index AddDocumentsToDB extends: an ExistingIndex
// handle or a PersistedPath to load first.
type IndexSource interface {
	resolve(ix *Indexer) (*Index, error)
}

// ExistingIndex extends an index already open in this process.
type ExistingIndex struct {
	Index *Index
}

func (s ExistingIndex) resolve(*Indexer) (*Index, error) {
	if s.Index == nil {
		return nil, fmt.Errorf("%w: existing index is nil", errs.ErrConfiguration)
	}
	return s.Index, nil
}

// PersistedPath loads the index at Path. An empty EmbeddingModel uses the
// indexer's default model.
type PersistedPath struct {
	Path           string
	EmbeddingModel string
}

func (s PersistedPath) resolve(ix *Indexer) (*Index, error) {
	model := s.EmbeddingModel
	if model == "" {
		model = ix.defaultModel
	}
	return ix.LoadDB(s.Path, model)
}

// Indexer owns the vector index lifecycle.
type Indexer struct {
	embeddings   EmbeddingProvider
	defaultModel string
	concurrency  int
	log          *zap.SugaredLogger
}

func New(embeddings EmbeddingProvider, defaultModel string, log *zap.SugaredLogger) *Indexer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Indexer{
		embeddings:   embeddings,
		defaultModel: defaultModel,
		concurrency:  runtime.NumCPU(),
		log:          log,
	}
}

// CreateNewDB embeds docs with embeddingModel into a fresh index. With a
// persistDir the index is written through to disk and any index previously
// stored there is replaced; otherwise it lives in memory only. Documents are
// embedded before anything on disk is touched, so a failed embedding leaves a
// previously persisted index intact.
func (ix *Indexer) CreateNewDB(ctx context.Context, docs []document.Document, embeddingModel, persistDir string) (*Index, error) {
	embed, err := ix.embeddings.EmbeddingFunc(embeddingModel)
	if err != nil {
		return nil, err
	}

	entries, err := embedEntries(ctx, embed, docs, ix.concurrency)
	if err != nil {
		return nil, err
	}

	db := chromem.NewDB()
	if persistDir != "" {
		db, err = chromem.NewPersistentDB(persistDir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database at %s: %w", persistDir, err)
		}
		if db.GetCollection(collectionName, embed) != nil {
			ix.log.Warnf("♻️  Replacing existing index in %s", persistDir)
			if err := db.DeleteCollection(collectionName); err != nil {
				return nil, fmt.Errorf("failed to drop existing index: %w", err)
			}
		}
	}

	coll, err := db.CreateCollection(collectionName, map[string]string{metaEmbeddingModel: embeddingModel}, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	idx := &Index{db: db, coll: coll, model: embeddingModel, dir: persistDir, concurrency: ix.concurrency}
	if err := idx.addEntries(ctx, entries); err != nil {
		return nil, err
	}
	if persistDir != "" {
		if err := saveMeta(metaPath(persistDir, true), indexMeta{EmbeddingModel: embeddingModel}); err != nil {
			return nil, err
		}
	}

	ix.log.Infof("🧮 Created index with %d documents (model %s)", idx.Count(), embeddingModel)
	return idx, nil
}

// AddDocumentsToDB embeds docs into the index named by src and returns it.
// A nil src is a configuration error and triggers no embedding calls.
func (ix *Indexer) AddDocumentsToDB(ctx context.Context, docs []document.Document, src IndexSource) (*Index, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: either an index or a path must be provided", errs.ErrConfiguration)
	}

	idx, err := src.resolve(ix)
	if err != nil {
		return nil, err
	}
	if err := idx.add(ctx, docs); err != nil {
		return nil, err
	}

	ix.log.Infof("🧮 Added %d documents, index now holds %d", len(docs), idx.Count())
	return idx, nil
}

// LoadDB opens the index persisted at path and binds it to embeddingModel.
// path is either a persistent directory or a snapshot written by Index.Export;
// a snapshot loads into memory and later additions are not written back.
func (ix *Indexer) LoadDB(path, embeddingModel string) (*Index, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no index at %s", errs.ErrNotFound, path)
	} else if err != nil {
		return nil, err
	}

	embed, err := ix.embeddings.EmbeddingFunc(embeddingModel)
	if err != nil {
		return nil, err
	}

	var db *chromem.DB
	dir := ""
	if info.IsDir() {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database at %s: %w", path, err)
		}
		dir = path
	} else {
		db = chromem.NewDB()
		if err := db.ImportFromFile(path, "", collectionName); err != nil {
			return nil, fmt.Errorf("failed to import index snapshot: %w", err)
		}
	}

	coll := db.GetCollection(collectionName, embed)
	if coll == nil {
		return nil, fmt.Errorf("%w: no persisted index in %s", errs.ErrNotFound, path)
	}

	meta, err := loadMeta(metaPath(path, info.IsDir()))
	switch {
	case err != nil:
		ix.log.Warnf("Could not read index metadata for %s: %v", path, err)
	case meta.EmbeddingModel != "" && meta.EmbeddingModel != embeddingModel:
		ix.log.Warnf("⚠️  Index in %s was built with %s but is loaded with %s; search results will be unreliable",
			path, meta.EmbeddingModel, embeddingModel)
	}

	ix.log.Infof("📂 Loaded index from %s with %d documents", path, coll.Count())
	return &Index{db: db, coll: coll, model: embeddingModel, dir: dir, concurrency: ix.concurrency}, nil
}
