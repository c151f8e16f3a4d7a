package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Ensure ResponseEvaluator implements the interface.
var _ driving.ResponseEvaluator = (*ResponseEvaluator)(nil)

// Evaluation defaults.
const (
	DefaultEvaluationModel       = "gpt-4o-mini"
	DefaultEvaluationMaxTokens   = 200
	DefaultEvaluationTemperature = 0.3

	// evaluationFailedText stands in for the evaluator reply when the LLM
	// call fails. It parses to the default score.
	evaluationFailedText = "Unable to evaluate response."
)

// sessionEntry serialises updates to one session. mu is held across the store write so
// saves land in the same order as the changes they record.
type sessionEntry struct {
	mu      sync.Mutex
	metrics *domain.SessionMetrics
}

// ResponseEvaluator scores answers with an LLM and keeps per-session metrics.
// Sessions are held in memory; when a SessionStore is configured every
// change is also persisted.
type ResponseEvaluator struct {
	llm       driven.LLMService
	prompts   driving.PromptAssembler
	parser    driven.EvaluationParser
	retriever driving.ContextRetriever
	store     driven.SessionStore
	events    driven.EventPublisher
	now       func() time.Time

	model       string
	maxTokens   int
	temperature float64

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// EvaluatorOption configures a ResponseEvaluator.
type EvaluatorOption func(*ResponseEvaluator)

// WithEvaluationModel sets the chat model used for scoring.
func WithEvaluationModel(model string) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		if model != "" {
			e.model = model
		}
	}
}

// WithEvaluationMaxTokens sets the reply token cap.
func WithEvaluationMaxTokens(n int) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithEvaluationTemperature sets the sampling temperature.
func WithEvaluationTemperature(t float64) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		if t >= 0 {
			e.temperature = t
		}
	}
}

// WithParser sets the evaluation parser.
func WithParser(p driven.EvaluationParser) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		if p != nil {
			e.parser = p
		}
	}
}

// WithReferenceRetriever adds knowledge-base context to each evaluation.
func WithReferenceRetriever(r driving.ContextRetriever) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		e.retriever = r
	}
}

// WithSessionStore persists session snapshots.
func WithSessionStore(s driven.SessionStore) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		e.store = s
	}
}

// WithEventPublisher announces ended sessions.
func WithEventPublisher(p driven.EventPublisher) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		e.events = p
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *ResponseEvaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewResponseEvaluator creates an evaluator. llm may be nil, in which
// case every response receives the default score.
func NewResponseEvaluator(
	llm driven.LLMService,
	prompts driving.PromptAssembler,
	opts ...EvaluatorOption,
) *ResponseEvaluator {
	e := &ResponseEvaluator{
		llm:         llm,
		prompts:     prompts,
		parser:      LineParser{},
		now:         time.Now,
		model:       DefaultEvaluationModel,
		maxTokens:   DefaultEvaluationMaxTokens,
		temperature: DefaultEvaluationTemperature,
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartSession begins a session. An existing session with the same ID is replaced.
func (e *ResponseEvaluator) StartSession(
	ctx context.Context, sessionID string, interviewType domain.InterviewType,
) domain.SessionMetrics {
	entry := &sessionEntry{metrics: domain.NewSessionMetrics(sessionID, interviewType, e.now())}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	e.mu.Lock()
	e.sessions[sessionID] = entry
	e.mu.Unlock()

	snapshot := entry.metrics.Clone()
	e.persist(ctx, snapshot)
	logger.Info("Started evaluation session: %s", sessionID)
	return snapshot
}

// EvaluateResponse scores response and records it against the session.
// Scores for unknown sessions are returned but not recorded.
func (e *ResponseEvaluator) EvaluateResponse(
	ctx context.Context, sessionID, question, response string,
) domain.ResponseScore {
	ctx, span := startSpan(ctx, "evaluator.evaluate_response",
		attribute.String("session_id", sessionID))
	defer span.End()

	raw := e.generate(ctx, question, response)
	score := e.parser.Parse(raw)
	span.SetAttributes(attribute.Int("score", score.Overall))

	entry := e.entry(sessionID)
	if entry == nil {
		logger.Warn("Session %s not found; score not recorded", sessionID)
		return score
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.metrics.AddScore(score)
	e.persist(ctx, entry.metrics.Clone())
	return score
}

// generate asks the LLM to evaluate one answer. Failures produce
// evaluationFailedText.
func (e *ResponseEvaluator) generate(ctx context.Context, question, response string) string {
	if e.llm == nil {
		logger.Error("Evaluation failed: %v", domain.ErrLLMUnavailable)
		return evaluationFailedText
	}

	system := ""
	if e.prompts != nil {
		system = e.prompts.EvaluationPrompt()
	}
	opts := driven.ChatOptions{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	}
	if h, ok := e.parser.(formatHinter); ok {
		system += "\n\n" + h.FormatHint()
		opts.JSON = true
	}

	user := fmt.Sprintf("Question: %s\n\nCandidate Response: %s", question, response)
	if e.retriever != nil {
		if ref := e.retriever.RetrieveForEvaluation(ctx, question, response); ref != "" {
			user += "\n\nReference Material:\n" + ref
		}
	}

	reply, err := e.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: user},
	}, opts)
	if err != nil {
		logger.Error("Evaluation failed: %v", err)
		return evaluationFailedText
	}
	return reply
}

// EndSession stamps the end time and publishes the summary.
// Ending an already ended session moves its end time.
func (e *ResponseEvaluator) EndSession(ctx context.Context, sessionID string) (domain.SessionMetrics, bool) {
	entry := e.entry(sessionID)
	if entry == nil {
		return domain.SessionMetrics{}, false
	}

	entry.mu.Lock()
	entry.metrics.End(e.now())
	snapshot := entry.metrics.Clone()
	e.persist(ctx, snapshot)
	entry.mu.Unlock()

	logger.Info("Ended session %s: avg score %.1f", sessionID, snapshot.AverageScore)

	if e.events != nil {
		if err := e.events.PublishSessionEnded(ctx, snapshot.Summary()); err != nil {
			logger.Warn("Failed to publish session %s: %v", sessionID, err)
		}
	}
	return snapshot, true
}

// GetSession returns a snapshot of a live session.
func (e *ResponseEvaluator) GetSession(_ context.Context, sessionID string) (domain.SessionMetrics, bool) {
	entry := e.entry(sessionID)
	if entry == nil {
		return domain.SessionMetrics{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.metrics.Clone(), true
}

// ListSessions returns stored sessions, newest first. Without a store
// the live sessions are listed.
func (e *ResponseEvaluator) ListSessions(ctx context.Context, limit int) ([]domain.SessionMetrics, error) {
	if e.store != nil {
		return e.store.List(ctx, limit)
	}

	e.mu.RLock()
	entries := make([]*sessionEntry, 0, len(e.sessions))
	for _, entry := range e.sessions {
		entries = append(entries, entry)
	}
	e.mu.RUnlock()

	out := make([]domain.SessionMetrics, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, entry.metrics.Clone())
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LoadSession returns a live session, or a stored one.
func (e *ResponseEvaluator) LoadSession(ctx context.Context, sessionID string) (*domain.SessionMetrics, error) {
	if m, ok := e.GetSession(ctx, sessionID); ok {
		return &m, nil
	}
	if e.store == nil {
		return nil, domain.ErrNotFound
	}
	m, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return m, nil
}

func (e *ResponseEvaluator) entry(sessionID string) *sessionEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessions[sessionID]
}

func (e *ResponseEvaluator) persist(ctx context.Context, snapshot domain.SessionMetrics) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, snapshot); err != nil {
		logger.Warn("Failed to persist session %s: %v", snapshot.SessionID, err)
	}
}
