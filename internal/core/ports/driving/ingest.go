package driving

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// IngestService loads, chunks and indexes knowledge-base files.
type IngestService interface {
	// IngestDirectory indexes every supported file under dir.
	IngestDirectory(ctx context.Context, dir string, recursive bool) (domain.IngestReport, error)

	// IngestFile indexes a single file.
	IngestFile(ctx context.Context, path string) (domain.IngestReport, error)

	// Watch re-ingests files as they are created or modified until ctx is
	// cancelled. onIngest, when non-nil, is called after each file.
	Watch(ctx context.Context, dir string, onIngest func(path string, report domain.IngestReport)) error
}
