package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionMetrics
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionMetrics),
	}
}

// Save stores or replaces a session snapshot.
func (s *SessionStore) Save(_ context.Context, metrics domain.SessionMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[metrics.SessionID] = metrics.Clone()
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*domain.SessionMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := m.Clone()
	return &out, nil
}

// List returns sessions, most recently started first. limit <= 0 returns all.
func (s *SessionStore) List(_ context.Context, limit int) ([]domain.SessionMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SessionMetrics, 0, len(s.sessions))
	for _, m := range s.sessions {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
