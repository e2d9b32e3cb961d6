package loader

import (
	"context"
	"strings"

	"news_rag/internal/document"
)

// Fetcher retrieves one source and extracts its text.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (document.Document, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, source string) (document.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, source string) (document.Document, error) {
	return f(ctx, source)
}

// Router sends http(s) sources to Web and everything else to File.
type Router struct {
	Web  Fetcher
	File Fetcher
}

func (r *Router) Fetch(ctx context.Context, source string) (document.Document, error) {
	if isWebURL(source) {
		return r.Web.Fetch(ctx, source)
	}
	return r.File.Fetch(ctx, source)
}

func isWebURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
