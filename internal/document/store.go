package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"news_rag/internal/errs"
)

// SaveAppend extends the document set persisted at path with docs and rewrites
// the whole file. The write is not atomic and not safe for concurrent writers:
// treat the file as a cache.
func SaveAppend(path string, docs []Document) error {
	existing, err := LoadFromFile(path)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		existing = nil
	case err != nil:
		return err
	}

	all := make([]Document, 0, len(existing)+len(docs))
	all = append(all, existing...)
	all = append(all, docs...)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create document cache: %w", err)
	}
	return writeDocuments(f, all)
}

// writeDocuments encodes docs to w and closes it, reporting a failed close
// when the encode itself succeeded.
func writeDocuments(w io.WriteCloser, docs []Document) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close document cache: %w", cerr)
		}
	}()

	if err := json.NewEncoder(w).Encode(docs); err != nil {
		return fmt.Errorf("failed to encode document cache: %w", err)
	}
	return nil
}

// LoadFromFile returns the documents persisted at path in stored order.
func LoadFromFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no file found at %s", errs.ErrNotFound, path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []Document
	if err := json.NewDecoder(f).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode document cache %s: %w", path, err)
	}
	return docs, nil
}
