package retriever

import (
	"context"

	"news_rag/internal/document"
)

// Retriever returns the documents relevant to a question, in retrieval order.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]document.Document, error)
}

// Func adapts a plain function to Retriever.
type Func func(ctx context.Context, question string) ([]document.Document, error)

func (f Func) Retrieve(ctx context.Context, question string) ([]document.Document, error) {
	return f(ctx, question)
}

// Searcher is the nearest-neighbour query of a vector index.
type Searcher interface {
	Search(ctx context.Context, text string, k int) ([]document.Document, error)
}

// VectorRetriever runs a single nearest-neighbour search of depth K.
type VectorRetriever struct {
	Searcher Searcher
	K        int
}

func (r VectorRetriever) Retrieve(ctx context.Context, question string) ([]document.Document, error) {
	return r.Searcher.Search(ctx, question, r.K)
}
