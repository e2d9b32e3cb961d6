package retriever

import (
	"go.uber.org/zap"

	"news_rag/internal/llm"
)

// DefaultTopK is the nearest-neighbour depth used when topK is not positive.
const DefaultTopK = 10

// CreateRetrieverFromDB wraps the index search (depth topK) in multi-query
// expansion driven by model at temperature 0.
func CreateRetrieverFromDB(index Searcher, completer llm.Completer, model string, topK int, opts ...Option) *MultiQueryRetriever {
	if topK <= 0 {
		topK = DefaultTopK
	}

	o := options{numQueries: DefaultNumQueries}
	for _, opt := range opts {
		opt(&o)
	}

	r := NewMultiQueryRetriever(VectorRetriever{Searcher: index, K: topK}, completer, model, o.log)
	r.NumQueries = o.numQueries
	r.IncludeOriginal = o.includeOriginal
	return r
}

type options struct {
	numQueries      int
	includeOriginal bool
	log             *zap.SugaredLogger
}

type Option func(*options)

func WithNumQueries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.numQueries = n
		}
	}
}

func WithOriginalQuery() Option {
	return func(o *options) { o.includeOriginal = true }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}
