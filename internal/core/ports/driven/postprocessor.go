package driven

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// PostProcessor transforms a loaded document into chunks.
// PostProcessors are chained in a pipeline (splitting, then annotation).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A processor that creates chunks (the splitter) receives nil.
	// A processor that refines chunks (the annotator) receives and returns them.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Document) ([]domain.Document, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Document, error)
}
