package chunker

import (
	"fmt"
	"strings"

	"news_rag/internal/document"
	"news_rag/internal/errs"
)

// Splitter splits documents recursively on natural boundaries so that every
// chunk fits in ChunkSize tokens, carrying up to ChunkOverlap tokens of the
// previous chunk into the next one.
type Splitter struct {
	tokenizer  Tokenizer
	size       int
	overlap    int
	separators []string
}

// NewSplitter validates cfg and binds it to tokenizer.
func NewSplitter(cfg Config, tokenizer Tokenizer) (*Splitter, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", errs.ErrConfiguration, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be in [0, %d)",
			errs.ErrConfiguration, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if tokenizer == nil {
		return nil, fmt.Errorf("%w: nil tokenizer", errs.ErrConfiguration)
	}

	separators := cfg.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	return &Splitter{
		tokenizer:  tokenizer,
		size:       cfg.ChunkSize,
		overlap:    cfg.ChunkOverlap,
		separators: separators,
	}, nil
}

// SplitDocuments chunks every document in order.
func (s *Splitter) SplitDocuments(docs []document.Document) []document.Document {
	var chunks []document.Document
	for _, doc := range docs {
		chunks = append(chunks, s.Split(doc)...)
	}
	return chunks
}

// Split returns the ordered chunks of doc. Each chunk records its byte offset
// in doc.Content as StartIndex.
func (s *Splitter) Split(doc document.Document) []document.Document {
	content := doc.Content
	whole := span{0, len(content)}

	var spans []span
	if s.tokenizer.Count(content) <= s.size {
		spans = []span{whole}
	} else {
		spans = s.splitSpan(content, whole, s.separators)
	}

	chunks := make([]document.Document, 0, len(spans))
	for _, sp := range spans {
		trimmed, ok := trimSpan(content, sp)
		if !ok {
			continue
		}
		chunks = append(chunks, doc.Slice(trimmed.start, trimmed.end))
	}
	return chunks
}

func (s *Splitter) splitSpan(content string, sp span, separators []string) []span {
	text := content[sp.start:sp.end]

	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var out, good []span
	for _, piece := range splitKeep(text, sp.start, sep) {
		if s.count(content, piece) <= s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			out = append(out, s.merge(content, good)...)
			good = nil
		}
		if len(rest) == 0 {
			// atomic unit larger than a chunk; emitted as is
			out = append(out, piece)
		} else {
			out = append(out, s.splitSpan(content, piece, rest)...)
		}
	}
	if len(good) > 0 {
		out = append(out, s.merge(content, good)...)
	}
	return out
}

// merge packs consecutive pieces into chunks of at most size tokens. When a
// chunk is closed, trailing pieces worth at most overlap tokens seed the next.
func (s *Splitter) merge(content string, pieces []span) []span {
	counts := make([]int, len(pieces))
	for i, p := range pieces {
		counts[i] = s.count(content, p)
	}

	var out []span
	first, total := 0, 0
	for i, n := range counts {
		if total+n > s.size && first < i {
			out = append(out, span{pieces[first].start, pieces[i-1].end})
			for first < i && (total > s.overlap || (total+n > s.size && total > 0)) {
				total -= counts[first]
				first++
			}
		}
		total += n
	}
	if first < len(pieces) {
		out = append(out, span{pieces[first].start, pieces[len(pieces)-1].end})
	}
	return out
}

func (s *Splitter) count(content string, sp span) int {
	return s.tokenizer.Count(content[sp.start:sp.end])
}
