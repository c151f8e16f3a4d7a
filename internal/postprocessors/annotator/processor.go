// Package annotator adds positional and content-type metadata to chunks.
package annotator

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor records chunk_index, total_chunks, chunk_size, the first/last
// flags and content_type on every chunk of a document.
type Processor struct{}

// New creates an annotator.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "annotator"
}

// Process annotates chunks in place and returns them.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Document) ([]domain.Document, error) {
	total := len(chunks)
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = domain.Metadata{}
		}
		m := chunks[i].Metadata
		m[domain.MetaChunkIndex] = i
		m[domain.MetaTotalChunks] = total
		m[domain.MetaChunkSize] = utf8.RuneCountInString(chunks[i].Content)
		m[domain.MetaIsFirstChunk] = i == 0
		m[domain.MetaIsLastChunk] = i == total-1
		m[domain.MetaContentType] = string(domain.ClassifyContent(chunks[i].Content))
	}
	return chunks, nil
}
