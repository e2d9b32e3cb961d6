package document

import (
	"strconv"

	"github.com/google/uuid"
)

// idNamespace scopes the UUIDv5 identities of documents and chunks.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("news-rag/document"))

// Document is a fetched page or a chunk of one. Treat it as immutable: the
// helpers below return copies instead of mutating the receiver.
type Document struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	SourceURL  string         `json:"source_url"`
	StartIndex *int           `json:"start_index,omitempty"`
}

// New builds a top-level document with a deterministic ID.
func New(content, sourceURL string, metadata map[string]any) Document {
	return Document{
		ID:        NewID(sourceURL, -1, content),
		Content:   content,
		Metadata:  cloneMetadata(metadata),
		SourceURL: sourceURL,
	}
}

// NewID derives a stable identity from source, offset and content, so re-adding
// the same chunk maps onto the same vector-store entry.
func NewID(sourceURL string, start int, content string) string {
	key := sourceURL + "\x00" + strconv.Itoa(start) + "\x00" + content
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Slice returns the chunk Content[start:end] with StartIndex set to start.
// Offsets are byte offsets into Content.
func (d Document) Slice(start, end int) Document {
	content := d.Content[start:end]
	if d.StartIndex != nil {
		start += *d.StartIndex
	}
	offset := start
	md := cloneMetadata(d.Metadata)
	if md == nil {
		md = make(map[string]any, 1)
	}
	md["start_index"] = offset

	return Document{
		ID:         NewID(d.SourceURL, offset, content),
		Content:    content,
		Metadata:   md,
		SourceURL:  d.SourceURL,
		StartIndex: &offset,
	}
}

// Start reports the chunk offset, if the document is a chunk.
func (d Document) Start() (int, bool) {
	if d.StartIndex == nil {
		return 0, false
	}
	return *d.StartIndex, true
}

func cloneMetadata(md map[string]any) map[string]any {
	if md == nil {
		return nil
	}
	out := make(map[string]any, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
