package driving

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// ResponseEvaluator scores candidate answers and tracks session metrics.
type ResponseEvaluator interface {
	// StartSession begins tracking a session, replacing any existing one with the same ID.
	StartSession(ctx context.Context, sessionID string, interviewType domain.InterviewType) domain.SessionMetrics

	// EvaluateResponse scores an answer and records it against the session.
	// It never fails: evaluator errors produce the default score.
	EvaluateResponse(ctx context.Context, sessionID, question, response string) domain.ResponseScore

	// EndSession finalises a session. The bool is false for unknown sessions.
	EndSession(ctx context.Context, sessionID string) (domain.SessionMetrics, bool)

	// GetSession returns a snapshot of a live session.
	GetSession(ctx context.Context, sessionID string) (domain.SessionMetrics, bool)

	// ListSessions returns persisted sessions, newest first.
	ListSessions(ctx context.Context, limit int) ([]domain.SessionMetrics, error)

	// LoadSession returns a persisted session by ID.
	LoadSession(ctx context.Context, sessionID string) (*domain.SessionMetrics, error)
}
