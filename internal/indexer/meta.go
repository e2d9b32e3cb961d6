package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// indexMeta is stored next to a persisted index or snapshot.
type indexMeta struct {
	EmbeddingModel string `json:"embedding_model"`
}

// metaPath places the metadata inside a persist directory, or beside a snapshot file.
func metaPath(path string, isDir bool) string {
	if isDir {
		return filepath.Join(path, "index_meta.json")
	}
	return path + ".meta.json"
}

func saveMeta(path string, meta indexMeta) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write index metadata: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write index metadata: %w", cerr)
		}
	}()

	return json.NewEncoder(f).Encode(meta)
}

// loadMeta returns a zero indexMeta when no metadata was written.
func loadMeta(path string) (indexMeta, error) {
	var meta indexMeta

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	} else if err != nil {
		return meta, err
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(&meta)
	return meta, err
}
