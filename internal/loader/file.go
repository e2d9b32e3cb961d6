package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"news_rag/internal/document"
	"news_rag/internal/errs"
)

// FileFetcher reads local .txt, .md and .pdf files, addressed by path or file:// URL.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, source string) (document.Document, error) {
	path := strings.TrimPrefix(source, "file://")

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return document.Document{}, fmt.Errorf("%w: no file found at %s", errs.ErrNotFound, path)
	}

	metadata := map[string]any{
		"source": source,
		"title":  filepath.Base(path),
	}

	var content string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".text":
		raw, err := os.ReadFile(path)
		if err != nil {
			return document.Document{}, fmt.Errorf("failed to read file: %w", err)
		}
		content = string(raw)
	case ".md", ".markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return document.Document{}, fmt.Errorf("failed to read file: %w", err)
		}
		content = markdownText(raw)
	case ".pdf":
		var pages int
		var err error
		content, pages, err = pdfText(path)
		if err != nil {
			return document.Document{}, err
		}
		metadata["page_count"] = pages
	default:
		return document.Document{}, fmt.Errorf("unsupported format %q: %s", ext, path)
	}

	return document.New(content, source, metadata), nil
}

// markdownText flattens markdown to plain text, keeping one blank line between blocks.
func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(src))
				}
				buf.WriteString("\n\n")
				return ast.WalkSkipChildren, nil
			}
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if !entering {
				buf.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

func pdfText(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable pages are skipped
			continue
		}
		if txt = strings.TrimSpace(txt); txt != "" {
			pages = append(pages, txt)
		}
	}
	return strings.Join(pages, "\n\n"), r.NumPage(), nil
}
