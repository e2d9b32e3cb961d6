package indexer

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"

	"news_rag/internal/document"
)

const (
	collectionName = "news"

	metaSourceURL      = "source_url"
	metaStartIndex     = "start_index"
	metaEmbeddingModel = "embedding_model"
)

// Index is a vector index bound to one embedding model for its whole lifetime.
// Mixing embedding models in one index is not detected.
type Index struct {
	db          *chromem.DB
	coll        *chromem.Collection
	model       string
	dir         string
	concurrency int
}

// EmbeddingModel returns the model the index was created or loaded with.
func (i *Index) EmbeddingModel() string { return i.model }

// PersistDir returns the directory the index writes through to, or "" when memory-only.
func (i *Index) PersistDir() string { return i.dir }

// Count returns the number of indexed documents.
func (i *Index) Count() int { return i.coll.Count() }

func (i *Index) add(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	entries := make([]chromem.Document, len(docs))
	for n, d := range docs {
		entries[n] = toEntry(d)
	}
	return i.addEntries(ctx, entries)
}

func (i *Index) addEntries(ctx context.Context, entries []chromem.Document) error {
	if len(entries) == 0 {
		return nil
	}

	concurrency := i.concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if err := i.coll.AddDocuments(ctx, entries, concurrency); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// embedEntries converts docs to store entries with their embeddings already
// computed, so a collection can be filled without further embedding calls.
func embedEntries(ctx context.Context, embed chromem.EmbeddingFunc, docs []document.Document, concurrency int) ([]chromem.Document, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	entries := make([]chromem.Document, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for n, d := range docs {
		n, d := n, d
		g.Go(func() error {
			vec, err := embed(gctx, d.Content)
			if err != nil {
				return fmt.Errorf("failed to embed document %s: %w", d.ID, err)
			}
			entry := toEntry(d)
			entry.Embedding = vec
			entries[n] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Search returns up to k documents nearest to text, most similar first.
func (i *Index) Search(ctx context.Context, text string, k int) ([]document.Document, error) {
	n := i.coll.Count()
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	results, err := i.coll.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	docs := make([]document.Document, len(results))
	for j, r := range results {
		docs[j] = fromResult(r)
	}
	return docs, nil
}

// Export writes a compressed snapshot of the index to path; LoadDB accepts it.
func (i *Index) Export(path string) error {
	if err := i.db.ExportToFile(path, true, "", collectionName); err != nil {
		return fmt.Errorf("failed to export index: %w", err)
	}
	return saveMeta(metaPath(path, false), indexMeta{EmbeddingModel: i.model})
}

// toEntry flattens a document for the vector store, which only keeps string metadata.
func toEntry(d document.Document) chromem.Document {
	md := make(map[string]string, len(d.Metadata)+2)
	for k, v := range d.Metadata {
		md[k] = fmt.Sprint(v)
	}
	md[metaSourceURL] = d.SourceURL
	if start, ok := d.Start(); ok {
		md[metaStartIndex] = strconv.Itoa(start)
	}

	return chromem.Document{
		ID:       d.ID,
		Content:  d.Content,
		Metadata: md,
	}
}

func fromResult(r chromem.Result) document.Document {
	doc := document.Document{
		ID:        r.ID,
		Content:   r.Content,
		SourceURL: r.Metadata[metaSourceURL],
		Metadata:  make(map[string]any, len(r.Metadata)),
	}
	for k, v := range r.Metadata {
		if k == metaSourceURL {
			continue
		}
		doc.Metadata[k] = v
	}
	if s, ok := r.Metadata[metaStartIndex]; ok {
		if start, err := strconv.Atoi(s); err == nil {
			doc.StartIndex = &start
			doc.Metadata[metaStartIndex] = start
		}
	}
	return doc
}
