package domain

import "strings"

// Metadata keys attached to loaded documents.
const (
	MetaSource   = "source"
	MetaFilename = "filename"
	MetaCategory = "category"
	MetaFileType = "file_type"
	MetaPage     = "page"
)

// Metadata keys added to documents by the chunking pipeline.
const (
	MetaChunkIndex   = "chunk_index"
	MetaTotalChunks  = "total_chunks"
	MetaChunkSize    = "chunk_size"
	MetaIsFirstChunk = "is_first_chunk"
	MetaIsLastChunk  = "is_last_chunk"
	MetaContentType  = "content_type"
)

// ContentType classifies the shape of a chunk's text.
type ContentType string

const (
	// ContentTypeQAPair marks chunks that open with a question ("Q:" or "**Q:").
	ContentTypeQAPair ContentType = "qa_pair"

	// ContentTypeHeading marks chunks that open with a markdown heading.
	ContentTypeHeading ContentType = "heading"

	// ContentTypeText is everything else.
	ContentTypeText ContentType = "text"
)

// ClassifyContent determines the content type from the leading characters
// of already-trimmed chunk text.
func ClassifyContent(content string) ContentType {
	switch {
	case strings.HasPrefix(content, "Q:") || strings.HasPrefix(content, "**Q:"):
		return ContentTypeQAPair
	case strings.HasPrefix(content, "#"):
		return ContentTypeHeading
	default:
		return ContentTypeText
	}
}

// Metadata holds arbitrary key-value pairs for a document.
// Values survive JSON round trips, so numeric values may come back as float64.
type Metadata map[string]any

// String returns the value for key as a string, or "" if absent or not a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Int returns the value for key as an int.
// Handles int, int64, and float64 types that may come from JSON parsing.
func (m Metadata) Int(key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	default:
		return 0, false
	}
}

// Bool returns the value for key as a bool, false if absent.
func (m Metadata) Bool(key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Document is a unit of knowledge-base text.
// Loaded files produce Documents; the chunker produces smaller Documents
// whose metadata additionally carries the chunk keys.
type Document struct {
	// ID is assigned when the document is inserted into a collection.
	ID string `json:"id,omitempty"`

	// Content is the text body.
	Content string `json:"content"`

	// Metadata contains source, filename, category, file_type and,
	// for chunks, the positional and content_type keys.
	Metadata Metadata `json:"metadata"`
}

// Category returns the document's category, defaulting to "general".
func (d Document) Category() string {
	if c := d.Metadata.String(MetaCategory); c != "" {
		return c
	}
	return CategoryGeneral
}

// ContentType returns the chunk content type recorded in metadata.
func (d Document) ContentType() ContentType {
	return ContentType(d.Metadata.String(MetaContentType))
}

// Source returns the originating file path.
func (d Document) Source() string {
	return d.Metadata.String(MetaSource)
}
