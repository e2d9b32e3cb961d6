package retriever

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"news_rag/internal/document"
	"news_rag/internal/llm"
)

// DefaultNumQueries is the number of paraphrases generated per question.
const DefaultNumQueries = 3

const defaultQueryPrompt = `You are an AI language model assistant. Your task is to generate {{.NumQueries}}
different versions of the given user question to retrieve relevant documents from a vector
database. By generating multiple perspectives on the user question, your goal is to help
the user overcome some of the limitations of distance-based similarity search.
Provide these alternative questions separated by newlines.
Original question: {{.Question}}`

// MultiQueryRetriever asks a language model for paraphrases of the question,
// runs the base retriever for each and merges the results. Documents are
// deduplicated by ID and keep the order in which they were first seen.
type MultiQueryRetriever struct {
	Base       Retriever
	Completer  llm.Completer
	Model      string
	NumQueries int

	// IncludeOriginal searches with the unmodified question before the paraphrases.
	IncludeOriginal bool
	QueryPrompt     string

	log *zap.SugaredLogger
}

func NewMultiQueryRetriever(base Retriever, completer llm.Completer, model string, log *zap.SugaredLogger) *MultiQueryRetriever {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MultiQueryRetriever{
		Base:        base,
		Completer:   completer,
		Model:       model,
		NumQueries:  DefaultNumQueries,
		QueryPrompt: defaultQueryPrompt,
		log:         log,
	}
}

func (m *MultiQueryRetriever) Retrieve(ctx context.Context, question string) ([]document.Document, error) {
	queries, err := m.generateQueries(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to generate queries: %w", err)
	}
	m.log.Debugw("generated queries", "question", question, "queries", queries)

	seen := make(map[string]bool)
	var merged []document.Document
	for _, q := range queries {
		docs, err := m.Base.Retrieve(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("retrieval for %q failed: %w", q, err)
		}
		for _, d := range docs {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			merged = append(merged, d)
		}
	}
	return merged, nil
}

func (m *MultiQueryRetriever) generateQueries(ctx context.Context, question string) ([]string, error) {
	answer, err := m.Completer.Complete(ctx, llm.Request{
		Model:       m.Model,
		Prompt:      m.buildPrompt(question),
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}

	var queries []string
	if m.IncludeOriginal {
		queries = append(queries, question)
	}
	queries = append(queries, parseQueries(answer)...)
	queries = unique(queries)

	if len(queries) == 0 {
		return []string{question}, nil
	}
	return queries, nil
}

func (m *MultiQueryRetriever) buildPrompt(question string) string {
	n := m.NumQueries
	if n <= 0 {
		n = DefaultNumQueries
	}
	prompt := m.QueryPrompt
	if prompt == "" {
		prompt = defaultQueryPrompt
	}
	prompt = strings.ReplaceAll(prompt, "{{.Question}}", question)
	return strings.ReplaceAll(prompt, "{{.NumQueries}}", strconv.Itoa(n))
}

// listMarker matches a leading "1." / "2)" / "-" / "*" / "•" list marker and its spacing.
var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)

// parseQueries reads one query per line, dropping list markers. Lines that
// merely start with a number, such as a year, are kept as written.
func parseQueries(text string) []string {
	var queries []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			queries = append(queries, line)
		}
	}
	return queries
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
