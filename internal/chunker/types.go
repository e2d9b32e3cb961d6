package chunker

// Tokenizer measures text length in a model's tokens.
type Tokenizer interface {
	Count(text string) int
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(text string) int

func (f TokenizerFunc) Count(text string) int { return f(text) }

// DefaultSeparators go from the largest natural boundary to the smallest:
// paragraph, line, sentence, word, character.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Config holds the splitting parameters shared by every splitter.
type Config struct {
	ModelName    string   // model whose tokenizer measures chunk length
	ChunkSize    int      // max tokens per chunk
	ChunkOverlap int      // tokens shared by adjacent chunks
	Separators   []string // nil means DefaultSeparators
}

// span is a half-open byte range [start, end) of the document being split.
type span struct {
	start, end int
}
