package driven

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// EventPublisher broadcasts session lifecycle events to other systems.
type EventPublisher interface {
	// PublishSessionEnded announces a finished session and its summary.
	PublishSessionEnded(ctx context.Context, summary domain.SessionSummary) error

	// Close drains and releases the connection.
	Close() error
}
