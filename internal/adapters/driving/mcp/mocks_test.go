package mcp

import (
	"context"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.ContextRetriever.
type mockRetriever struct {
	docs      []domain.Document
	questions []string
	err       error

	lastCategory string
	lastK        int
	lastType     domain.InterviewType
	lastCount    int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, category string, k int) ([]domain.Document, error) {
	m.lastCategory = category
	m.lastK = k
	return m.docs, m.err
}

func (m *mockRetriever) RetrieveForQuestion(_ context.Context, _ string, _ domain.InterviewType) string {
	return ""
}

func (m *mockRetriever) RetrieveForEvaluation(_ context.Context, _, _ string) string {
	return ""
}

func (m *mockRetriever) FormatContext(docs []domain.Document) string {
	if len(docs) == 0 {
		return ""
	}
	return "[Context 1]\n" + docs[0].Content
}

func (m *mockRetriever) SampleQuestions(
	_ context.Context, interviewType domain.InterviewType, _ string, count int,
) []string {
	m.lastType = interviewType
	m.lastCount = count
	return m.questions
}

// mockCoach is a mock implementation of driving.Coach.
type mockCoach struct {
	lastSessionID string
	lastMetadata  string
	err           error
}

func (m *mockCoach) Prepare(_ context.Context, sessionID, rawMetadata string) (domain.InterviewPlan, error) {
	m.lastSessionID = sessionID
	m.lastMetadata = rawMetadata
	if m.err != nil {
		return domain.InterviewPlan{}, m.err
	}
	meta := domain.ParseRoomMetadata(rawMetadata)
	return domain.InterviewPlan{
		SessionID:     sessionID,
		InterviewType: meta.InterviewType,
		CandidateInfo: meta.CandidateInfo,
		Greeting:      domain.Greeting,
	}, nil
}

// mockEvaluator is a mock implementation of driving.ResponseEvaluator.
type mockEvaluator struct {
	score    domain.ResponseScore
	sessions map[string]*domain.SessionMetrics
	listErr  error
}

func newMockEvaluator() *mockEvaluator {
	return &mockEvaluator{sessions: make(map[string]*domain.SessionMetrics)}
}

func (m *mockEvaluator) StartSession(
	_ context.Context, sessionID string, interviewType domain.InterviewType,
) domain.SessionMetrics {
	metrics := domain.NewSessionMetrics(sessionID, interviewType, fixedTime)
	m.sessions[sessionID] = metrics
	return metrics.Clone()
}

func (m *mockEvaluator) EvaluateResponse(_ context.Context, sessionID, _, _ string) domain.ResponseScore {
	if s, ok := m.sessions[sessionID]; ok {
		s.AddScore(m.score)
	}
	return m.score
}

func (m *mockEvaluator) EndSession(_ context.Context, sessionID string) (domain.SessionMetrics, bool) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.SessionMetrics{}, false
	}
	s.End(fixedTime.Add(fixedDuration))
	return s.Clone(), true
}

func (m *mockEvaluator) GetSession(_ context.Context, sessionID string) (domain.SessionMetrics, bool) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.SessionMetrics{}, false
	}
	return s.Clone(), true
}

func (m *mockEvaluator) ListSessions(_ context.Context, _ int) ([]domain.SessionMetrics, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.SessionMetrics, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *mockEvaluator) LoadSession(_ context.Context, sessionID string) (*domain.SessionMetrics, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := s.Clone()
	return &c, nil
}

// mockPrompts is a mock implementation of driving.PromptAssembler.
type mockPrompts struct{}

func (mockPrompts) SystemPrompt(interviewType domain.InterviewType, _, _ string) string {
	return "system prompt for " + interviewType.String()
}

func (mockPrompts) EvaluationPrompt() string {
	return "evaluate"
}

// mockVectorStore is a mock implementation of driving.VectorStore.
type mockVectorStore struct {
	stats domain.CollectionStats
	err   error
}

func (m *mockVectorStore) AddDocuments(_ context.Context, _ []domain.Document) ([]string, error) {
	return nil, m.err
}

func (m *mockVectorStore) SimilaritySearch(
	_ context.Context, _ string, _ int, _ *domain.Filter,
) ([]domain.Document, error) {
	return nil, m.err
}

func (m *mockVectorStore) SimilaritySearchWithScore(
	_ context.Context, _ string, _ int, _ *domain.Filter,
) ([]domain.ScoredDocument, error) {
	return nil, m.err
}

func (m *mockVectorStore) Stats(_ context.Context) (domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockVectorStore) DeleteSource(_ context.Context, _ string) error {
	return m.err
}

func (m *mockVectorStore) DeleteCollection(_ context.Context) error {
	return m.err
}

func (m *mockVectorStore) Reset(_ context.Context) error {
	return m.err
}
