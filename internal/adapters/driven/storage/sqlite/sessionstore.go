package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
// Timestamps are stored as UTC Unix nanoseconds so they sort numerically.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or replaces a session snapshot.
func (s *sessionStore) Save(ctx context.Context, m domain.SessionMetrics) error {
	scores := m.Scores
	if scores == nil {
		scores = []domain.ResponseScore{}
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshalling scores: %w", err)
	}

	var endedAt sql.NullInt64
	if m.EndedAt != nil {
		endedAt = sql.NullInt64{Int64: m.EndedAt.UTC().UnixNano(), Valid: true}
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, interview_type, started_at, ended_at, questions_answered, average_score, scores)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			interview_type = excluded.interview_type,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			questions_answered = excluded.questions_answered,
			average_score = excluded.average_score,
			scores = excluded.scores
	`, m.SessionID, string(m.InterviewType), m.StartedAt.UTC().UnixNano(), endedAt,
		m.QuestionsAnswered, m.AverageScore, string(scoresJSON))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *sessionStore) Get(ctx context.Context, sessionID string) (*domain.SessionMetrics, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, interview_type, started_at, ended_at, questions_answered, average_score, scores
		FROM sessions WHERE id = ?
	`, sessionID)
	m, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns sessions, most recently started first. limit <= 0 returns all.
func (s *sessionStore) List(ctx context.Context, limit int) ([]domain.SessionMetrics, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, interview_type, started_at, ended_at, questions_answered, average_score, scores
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.SessionMetrics{}
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.SessionMetrics, error) {
	var (
		m          domain.SessionMetrics
		kind       string
		startedAt  int64
		endedAt    sql.NullInt64
		scoresJSON string
	)
	if err := row.Scan(&m.SessionID, &kind, &startedAt, &endedAt,
		&m.QuestionsAnswered, &m.AverageScore, &scoresJSON); err != nil {
		return nil, err
	}
	m.InterviewType = domain.InterviewType(kind)
	m.StartedAt = time.Unix(0, startedAt).UTC()
	if endedAt.Valid {
		ended := time.Unix(0, endedAt.Int64).UTC()
		m.EndedAt = &ended
	}
	if err := json.Unmarshal([]byte(scoresJSON), &m.Scores); err != nil {
		return nil, fmt.Errorf("unmarshalling scores for %s: %w", m.SessionID, err)
	}
	return &m, nil
}
