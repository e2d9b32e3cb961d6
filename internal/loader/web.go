package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"news_rag/internal/document"
)

// minContentLength is the text length a content container must reach before
// it is preferred over the whole body.
const minContentLength = 100

var contentSelectors = []string{
	"article", "main", "[role='main']", ".article-body", ".entry-content", ".content", "#content",
}

// WebFetcherConfig configures the HTTP side of page fetching.
type WebFetcherConfig struct {
	Timeout    time.Duration
	RetryCount int
	UserAgent  string

	// RequestsPerSecond paces requests across all hosts; 0 disables pacing.
	RequestsPerSecond float64
}

// WebFetcher downloads a page and extracts its readable text.
type WebFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewWebFetcher(cfg WebFetcherConfig) *WebFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "news-rag/1.0"
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", cfg.UserAgent)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &WebFetcher{client: client, limiter: limiter}
}

func (w *WebFetcher) Fetch(ctx context.Context, url string) (document.Document, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return document.Document{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	resp, err := w.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return document.Document{}, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status())
	}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to parse html from %s: %w", url, err)
	}

	metadata := map[string]any{
		"source": url,
		"title":  collapseSpace(page.Find("title").First().Text()),
	}
	if desc, ok := page.Find("meta[name='description']").Attr("content"); ok {
		metadata["description"] = strings.TrimSpace(desc)
	}
	if lang, ok := page.Find("html").Attr("lang"); ok {
		metadata["language"] = lang
	}

	return document.New(extractText(page), url, metadata), nil
}

// extractText keeps block-level text of the main content, one block per paragraph.
func extractText(page *goquery.Document) string {
	page.Find("script, style, noscript, iframe, svg, nav, footer, form").Remove()

	root := page.Find("body")
	for _, selector := range contentSelectors {
		sel := page.Find(selector).First()
		if sel.Length() > 0 && len(strings.TrimSpace(sel.Text())) > minContentLength {
			root = sel
			break
		}
	}

	var blocks []string
	root.Find("h1, h2, h3, h4, p, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return collapseSpace(root.Text())
	}
	return strings.Join(blocks, "\n\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
