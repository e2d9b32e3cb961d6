package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_rag/internal/document"
	"news_rag/internal/errs"
)

// wordTokenizer counts whitespace-separated words.
var wordTokenizer = TokenizerFunc(func(text string) int {
	return len(strings.Fields(text))
})

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func newTestSplitter(t *testing.T, size, overlap int) *Splitter {
	t.Helper()
	s, err := NewSplitter(Config{ChunkSize: size, ChunkOverlap: overlap}, wordTokenizer)
	require.NoError(t, err)
	return s
}

const article = `Porto Alegre flooded in May 2024. The Guaíba river reached a record level of more than five meters.

Thousands of residents left their homes. Shelters were opened across the city and volunteers organised donations.

Specialists blamed the lack of maintenance of the flood protection system. The pumping stations failed when the water arrived.
Public schools were damaged and the city council discussed reconstruction works for months.`

func TestNewSplitterValidation(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap above size", 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(Config{ChunkSize: tt.size, ChunkOverlap: tt.overlap}, wordTokenizer)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}

	_, err := NewSplitter(Config{ChunkSize: 10}, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestSplitShortDocumentYieldsOneChunk(t *testing.T) {
	s := newTestSplitter(t, 50, 10)
	doc := document.New("  a short note about the flood  ", "https://example.com", nil)

	chunks := s.Split(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short note about the flood", chunks[0].Content)
	start, ok := chunks[0].Start()
	require.True(t, ok)
	assert.Equal(t, 2, start)
}

func TestSplitEmptyDocument(t *testing.T) {
	s := newTestSplitter(t, 5, 1)
	assert.Empty(t, s.Split(document.New(" \n\n ", "https://example.com", nil)))
}

func TestSplitProperties(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		size, overlap int
	}{
		{"article small chunks", article, 12, 3},
		{"article no overlap", article, 20, 0},
		{"article large chunks", article, 40, 10},
		{"single line", words(97), 10, 3},
		{"unicode", strings.Repeat("inundação em São Leopoldo e Canoas. ", 30), 15, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSplitter(t, tt.size, tt.overlap)
			doc := document.New(tt.content, "https://example.com/news", map[string]any{"title": "Flood"})

			chunks := s.Split(doc)
			require.NotEmpty(t, chunks)

			covered := make([]bool, len(tt.content))
			for _, c := range chunks {
				start, ok := c.Start()
				require.True(t, ok)

				// provenance: the offset points at the chunk text
				assert.Equal(t, c.Content, tt.content[start:start+len(c.Content)])
				// size bound
				assert.LessOrEqual(t, wordTokenizer.Count(c.Content), tt.size, c.Content)
				assert.Equal(t, "Flood", c.Metadata["title"])

				for i := start; i < start+len(c.Content); i++ {
					covered[i] = true
				}
			}

			// coverage of every non-whitespace byte
			for i, ch := range []byte(tt.content) {
				if ch == ' ' || ch == '\n' {
					continue
				}
				assert.True(t, covered[i], "byte %d (%q) not covered", i, ch)
			}
		})
	}
}

func TestSplitOverlap(t *testing.T) {
	s := newTestSplitter(t, 10, 3)
	doc := document.New(words(40), "https://example.com", nil)

	chunks := s.Split(doc)
	require.Greater(t, len(chunks), 1)

	for i := 0; i+1 < len(chunks); i++ {
		cur := strings.Fields(chunks[i].Content)
		next := strings.Fields(chunks[i+1].Content)
		assert.Len(t, cur, 10)
		assert.Equal(t, cur[len(cur)-3:], next[:3])
	}
	assert.Equal(t, "w0", strings.Fields(chunks[0].Content)[0])
	last := strings.Fields(chunks[len(chunks)-1].Content)
	assert.Equal(t, "w39", last[len(last)-1])
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := newTestSplitter(t, 20, 0)
	doc := document.New(article, "https://example.com", nil)

	chunks := s.Split(doc)
	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Porto Alegre flooded in May 2024."))
	assert.True(t, strings.HasSuffix(chunks[0].Content, "five meters."))
}

func TestSplitOversizedWord(t *testing.T) {
	s, err := NewSplitter(Config{ChunkSize: 3, ChunkOverlap: 1, Separators: []string{" "}},
		TokenizerFunc(func(text string) int { return len(strings.TrimSpace(text)) }))
	require.NoError(t, err)

	chunks := s.Split(document.New("ab enormousword cd", "https://example.com", nil))
	var contents []string
	for _, c := range chunks {
		contents = append(contents, c.Content)
	}
	assert.Contains(t, contents, "enormousword")
}

func TestSplitDocumentsKeepsOrder(t *testing.T) {
	s := newTestSplitter(t, 10, 2)
	docs := []document.Document{
		document.New(words(25), "https://example.com/1", nil),
		document.New(words(5), "https://example.com/2", nil),
	}

	chunks := s.SplitDocuments(docs)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "https://example.com/1", chunks[0].SourceURL)
	assert.Equal(t, "https://example.com/2", chunks[len(chunks)-1].SourceURL)
}

func TestFactoryCachesTokenizer(t *testing.T) {
	calls := 0
	f := NewFactoryWith(func(model string) (Tokenizer, error) {
		calls++
		return wordTokenizer, nil
	})

	for i := 0; i < 3; i++ {
		_, err := f.NewSplitter(Config{ModelName: "gpt-3.5-turbo", ChunkSize: 10, ChunkOverlap: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}
