package chunker

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"news_rag/internal/document"
)

// fallbackEncoding is used for models tiktoken has no mapping for (local models).
const fallbackEncoding = "cl100k_base"

// TokenizerForModel returns the tiktoken vocabulary of model. Unknown model
// names fall back to cl100k_base.
func TokenizerForModel(model string) (Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer for %s: %w", model, err)
		}
	}
	return TokenizerFunc(func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}), nil
}

// Factory creates splitters and caches one tokenizer per model name.
type Factory struct {
	resolve    func(model string) (Tokenizer, error)
	mu         sync.Mutex
	tokenizers map[string]Tokenizer
}

// NewFactory creates a factory backed by tiktoken.
func NewFactory() *Factory {
	return NewFactoryWith(TokenizerForModel)
}

// NewFactoryWith creates a factory with a custom tokenizer resolver.
func NewFactoryWith(resolve func(model string) (Tokenizer, error)) *Factory {
	return &Factory{
		resolve:    resolve,
		tokenizers: make(map[string]Tokenizer),
	}
}

// Tokenizer returns the cached tokenizer of model, resolving it on first use.
func (f *Factory) Tokenizer(model string) (Tokenizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if tok, ok := f.tokenizers[model]; ok {
		return tok, nil
	}
	tok, err := f.resolve(model)
	if err != nil {
		return nil, err
	}
	f.tokenizers[model] = tok
	return tok, nil
}

// NewSplitter returns a splitter measuring length with cfg.ModelName's tokenizer.
func (f *Factory) NewSplitter(cfg Config) (*Splitter, error) {
	tok, err := f.Tokenizer(cfg.ModelName)
	if err != nil {
		return nil, err
	}
	return NewSplitter(cfg, tok)
}

var defaultFactory = NewFactory()

// Chunk splits docs with the tokenizer of modelName.
func Chunk(docs []document.Document, modelName string, chunkSize, chunkOverlap int) ([]document.Document, error) {
	s, err := defaultFactory.NewSplitter(Config{
		ModelName:    modelName,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	})
	if err != nil {
		return nil, err
	}
	return s.SplitDocuments(docs), nil
}
