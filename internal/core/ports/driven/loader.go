package driven

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// DocumentLoader reads knowledge-base files into documents.
// Loading never fails outright: unreadable or unsupported files are
// logged and contribute no documents.
type DocumentLoader interface {
	// LoadFile loads a single file. Relative paths resolve against the base directory.
	LoadFile(ctx context.Context, path string) []domain.Document

	// LoadDirectory loads every supported file under dir.
	// An empty dir means the base directory.
	LoadDirectory(ctx context.Context, dir string, recursive bool) []domain.Document

	// Supports reports whether the file extension is loadable.
	Supports(path string) bool

	// Resolve returns the source path LoadFile records for path.
	Resolve(path string) string
}
