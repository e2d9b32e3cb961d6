package rag

import (
	"context"
	"fmt"
	"strings"

	"news_rag/internal/document"
	"news_rag/internal/llm"
	"news_rag/internal/retriever"
)

// Chain retrieves context for a question and asks the model to answer from it.
type Chain struct {
	Retriever    retriever.Retriever
	Completer    llm.Completer
	Model        string
	SystemPrompt string
	Temperature  float32
}

// Result is the answer together with the context it was generated from.
type Result struct {
	Answer  string
	Context []document.Document
}

func (c *Chain) Invoke(ctx context.Context, question string) (Result, error) {
	docs, err := c.Retriever.Retrieve(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := c.Completer.Complete(ctx, llm.Request{
		Model:       c.Model,
		System:      strings.ReplaceAll(c.SystemPrompt, contextPlaceholder, joinContents(docs)),
		Prompt:      question,
		Temperature: c.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generation failed: %w", err)
	}

	return Result{Answer: answer, Context: docs}, nil
}

// joinContents stuffs documents into the prompt separated by blank lines.
func joinContents(docs []document.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n\n")
}

// ContextText renders retrieved documents the way they were given to the model.
func ContextText(docs []document.Document) string {
	return joinContents(docs)
}
