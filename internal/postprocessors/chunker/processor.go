// Package chunker provides a structure-aware text splitting processor.
//
// Text is split on the highest-priority separator it contains (markdown
// headings first, then paragraphs, list items, lines, sentences, words and
// finally single characters). Pieces that are still too large are split
// again with the remaining separators; small neighbours are merged back up
// to the chunk size, carrying a tail of overlap characters into the next
// chunk. Separators stay attached to the start of the piece that follows.
//
// All sizes are measured in characters (runes), not bytes.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// DefaultSeparators is the split priority, highest first.
var DefaultSeparators = []string{
	"\n## ",
	"\n### ",
	"\n\n",
	"\n- ",
	"\n* ",
	"\n",
	". ",
	" ",
	"",
}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator priority list.
func WithSeparators(seps []string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = append([]string(nil), seps...)
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks that inherit the
// document's metadata. Input chunks are ignored.
// Documents no longer than the chunk size become a single chunk.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Document) ([]domain.Document, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var texts []string
	if runeLen(doc.Content) <= p.chunkSize {
		texts = []string{doc.Content}
	} else {
		texts = p.Split(doc.Content)
	}

	chunks := make([]domain.Document, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, domain.Document{
			Content:  text,
			Metadata: doc.Metadata.Clone(),
		})
	}

	return chunks, nil
}

// workKind distinguishes entries on the split work stack.
type workKind int

const (
	// workSegment is text still to be split with the remaining separators.
	workSegment workKind = iota

	// workMerge is a run of small pieces to merge into chunks.
	workMerge

	// workLiteral is an oversized piece with no separators left; emitted as-is.
	workLiteral
)

type workItem struct {
	kind   workKind
	text   string
	seps   []string
	pieces []string
}

// Split returns the raw chunk texts for content, before trimming.
// The separator hierarchy is walked with an explicit stack so deeply
// nested content cannot exhaust the goroutine stack.
func (p *Processor) Split(content string) []string {
	var out []string
	stack := []workItem{{kind: workSegment, text: content, seps: p.separators}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch item.kind {
		case workMerge:
			out = append(out, p.merge(item.pieces)...)
		case workLiteral:
			out = append(out, item.text)
		case workSegment:
			next := p.expand(item.text, item.seps)
			// Push in reverse so items pop in document order.
			for i := len(next) - 1; i >= 0; i-- {
				stack = append(stack, next[i])
			}
		}
	}

	return out
}

// expand splits text on its highest-priority separator and classifies the
// pieces: runs of small pieces become merge work, large pieces are split
// again with the lower-priority separators.
func (p *Processor) expand(text string, seps []string) []workItem {
	sep, rest := pickSeparator(text, seps)

	var items []workItem
	var small []string
	flush := func() {
		if len(small) > 0 {
			items = append(items, workItem{kind: workMerge, pieces: small})
			small = nil
		}
	}

	for _, piece := range splitKeepingSeparator(text, sep) {
		if runeLen(piece) < p.chunkSize {
			small = append(small, piece)
			continue
		}
		flush()
		if len(rest) == 0 {
			items = append(items, workItem{kind: workLiteral, text: piece})
		} else {
			items = append(items, workItem{kind: workSegment, text: piece, seps: rest})
		}
	}
	flush()

	return items
}

// merge combines small pieces into chunks of at most chunkSize characters.
// After each emitted chunk, pieces are dropped from the front until at most
// overlap characters remain; those carry into the next chunk.
func (p *Processor) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if total > p.chunkSize {
				logger.Debug("Created a chunk of size %d, which is longer than the specified %d", total, p.chunkSize)
			}
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// pickSeparator returns the first separator present in text and the
// separators below it. The empty separator always matches and ends the list.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	if len(seps) == 0 {
		return "", nil
	}
	return seps[len(seps)-1], nil
}

// splitKeepingSeparator splits text on sep, attaching each separator to
// the start of the piece that follows it. Empty pieces are dropped.
// The empty separator splits into single characters.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, part := range parts[1:] {
		out = append(out, sep+part)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
