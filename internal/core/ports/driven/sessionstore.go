package driven

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// SessionStore persists session metrics snapshots for later review.
type SessionStore interface {
	// Save stores or replaces the snapshot for metrics.SessionID.
	Save(ctx context.Context, metrics domain.SessionMetrics) error

	// Get returns a stored session or domain.ErrNotFound.
	Get(ctx context.Context, sessionID string) (*domain.SessionMetrics, error)

	// List returns stored sessions, most recently started first.
	List(ctx context.Context, limit int) ([]domain.SessionMetrics, error)

	// Delete removes a stored session.
	Delete(ctx context.Context, sessionID string) error
}
