package indexer

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"news_rag/internal/document"
	"news_rag/internal/errs"
)

const dims = 64

// bagOfWords embeds text as a normalized hashed word histogram and counts calls.
type bagOfWords struct {
	calls atomic.Int64
}

func (b *bagOfWords) EmbeddingFunc(model string) (chromem.EmbeddingFunc, error) {
	if !strings.HasPrefix(model, "fake-") {
		return nil, errs.ErrConfiguration
	}
	return func(_ context.Context, text string) ([]float32, error) {
		b.calls.Add(1)
		vec := make([]float32, dims)
		vec[0] = 0.01
		for _, w := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(strings.Trim(w, ".,")))
			vec[1+h.Sum32()%(dims-1)]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}, nil
}

var (
	floodDocs = []document.Document{
		document.New("Porto Alegre flooded in May 2024", "https://news.example/flood", nil),
		document.New("Shelters for displaced residents were opened downtown", "https://news.example/shelters", nil),
		document.New("The pumping stations failed when the river rose", "https://news.example/pumps", nil),
	}
	economyDocs = []document.Document{
		document.New("Small businesses can receive up to fifteen thousand reais", "https://news.example/credit", nil).Slice(0, 57),
	}
)

func newTestIndexer() (*Indexer, *bagOfWords) {
	emb := &bagOfWords{}
	return New(emb, "fake-embedding", nil), emb
}

func ids(docs []document.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestCreateNewDBInMemory(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()

	idx, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", "")
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Count())
	assert.Equal(t, "fake-embedding", idx.EmbeddingModel())
	assert.Empty(t, idx.PersistDir())

	got, err := idx.Search(ctx, "Porto Alegre flooded in May 2024", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, floodDocs[0].ID, got[0].ID)
	assert.Equal(t, floodDocs[0].Content, got[0].Content)
	assert.Equal(t, "https://news.example/flood", got[0].SourceURL)

	// k larger than the index is clamped
	got, err = idx.Search(ctx, "river", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCreateNewDBUnknownModel(t *testing.T) {
	ix, _ := newTestIndexer()
	_, err := ix.CreateNewDB(context.Background(), floodDocs, "other-model", "")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix, _ := newTestIndexer()
	idx, err := ix.CreateNewDB(context.Background(), nil, "fake-embedding", "")
	require.NoError(t, err)

	got, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIncrementalAdd(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()

	idx, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", "")
	require.NoError(t, err)

	same, err := ix.AddDocumentsToDB(ctx, economyDocs, ExistingIndex{Index: idx})
	require.NoError(t, err)
	assert.Same(t, idx, same)
	assert.Equal(t, 4, idx.Count())

	got, err := idx.Search(ctx, "Small businesses can receive up to fifteen thousand reais", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, economyDocs[0].ID, got[0].ID)
	start, ok := got[0].Start()
	require.True(t, ok)
	assert.Equal(t, 0, start)
}

func TestAddDocumentsToDBConfigurationError(t *testing.T) {
	ix, emb := newTestIndexer()

	_, err := ix.AddDocumentsToDB(context.Background(), floodDocs, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = ix.AddDocumentsToDB(context.Background(), floodDocs, ExistingIndex{})
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	assert.Zero(t, emb.calls.Load())
}

func TestPersistAndReload(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	idx, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, idx.PersistDir())

	want, err := idx.Search(ctx, "shelters for residents", 2)
	require.NoError(t, err)

	loaded, err := ix.LoadDB(dir, "fake-embedding")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())

	got, err := loaded.Search(ctx, "shelters for residents", 2)
	require.NoError(t, err)
	assert.Equal(t, ids(want), ids(got))
}

func TestAddDocumentsToPersistedPath(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	_, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.NoError(t, err)

	idx, err := ix.AddDocumentsToDB(ctx, economyDocs, PersistedPath{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Count())

	reloaded, err := ix.LoadDB(dir, "fake-embedding")
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Count())
}

func TestCreateNewDBReplacesPersistedIndex(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	_, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.NoError(t, err)
	idx, err := ix.CreateNewDB(ctx, economyDocs, "fake-embedding", dir)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Count())
}

// brokenEmbeddings fails every embedding call, like a revoked key or a down server.
type brokenEmbeddings struct{}

var errEmbed = errors.New("embedding service unavailable")

func (brokenEmbeddings) EmbeddingFunc(string) (chromem.EmbeddingFunc, error) {
	return func(context.Context, string) ([]float32, error) {
		return nil, errEmbed
	}, nil
}

func TestCreateNewDBFailedReplaceKeepsPersistedIndex(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	_, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.NoError(t, err)

	broken := New(brokenEmbeddings{}, "fake-embedding", nil)
	_, err = broken.CreateNewDB(ctx, economyDocs, "fake-embedding", dir)
	require.ErrorIs(t, err, errEmbed)

	reloaded, err := ix.LoadDB(dir, "fake-embedding")
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Count())
}

func TestCreateNewDBFailedEmbeddingCreatesNothing(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	broken := New(brokenEmbeddings{}, "fake-embedding", nil)
	_, err := broken.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.ErrorIs(t, err, errEmbed)

	ix, _ := newTestIndexer()
	_, err = ix.LoadDB(dir, "fake-embedding")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLoadDBWarnsOnEmbeddingModelMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ix := New(&bagOfWords{}, "fake-embedding", zap.New(core).Sugar())
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	_, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", dir)
	require.NoError(t, err)

	_, err = ix.LoadDB(dir, "fake-embedding")
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("was built with").Len())

	_, err = ix.LoadDB(dir, "fake-embedding-large")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("was built with fake-embedding but is loaded with fake-embedding-large").Len())
}

func TestExportSnapshotRecordsEmbeddingModel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ix := New(&bagOfWords{}, "fake-embedding", zap.New(core).Sugar())

	idx, err := ix.CreateNewDB(context.Background(), floodDocs, "fake-embedding", "")
	require.NoError(t, err)
	snapshot := filepath.Join(t.TempDir(), "index.gob.gz")
	require.NoError(t, idx.Export(snapshot))

	_, err = ix.LoadDB(snapshot, "fake-other")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("was built with fake-embedding").Len())
}

func TestExportSnapshot(t *testing.T) {
	ix, _ := newTestIndexer()
	ctx := context.Background()

	idx, err := ix.CreateNewDB(ctx, floodDocs, "fake-embedding", "")
	require.NoError(t, err)

	snapshot := filepath.Join(t.TempDir(), "index.gob.gz")
	require.NoError(t, idx.Export(snapshot))

	loaded, err := ix.LoadDB(snapshot, "fake-embedding")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())
	assert.Empty(t, loaded.PersistDir())

	got, err := loaded.Search(ctx, "pumping stations failed", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, floodDocs[2].ID, got[0].ID)
}

func TestLoadDBNotFound(t *testing.T) {
	ix, _ := newTestIndexer()

	_, err := ix.LoadDB(filepath.Join(t.TempDir(), "missing"), "fake-embedding")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	_, err = ix.LoadDB(empty, "fake-embedding")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEmbeddingsRouting(t *testing.T) {
	_, err := Embeddings{}.EmbeddingFunc("")
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = Embeddings{}.EmbeddingFunc("text-embedding-3-small")
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	fn, err := Embeddings{OpenAIKey: "sk-test"}.EmbeddingFunc("text-embedding-3-large")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	fn, err = Embeddings{OllamaURL: "http://localhost:11434/"}.EmbeddingFunc("nomic-embed-text")
	require.NoError(t, err)
	assert.NotNil(t, fn)
}
