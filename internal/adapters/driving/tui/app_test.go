package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

var fixedTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type mockCoach struct {
	err      error
	metadata string
}

func (m *mockCoach) Prepare(_ context.Context, sessionID, rawMetadata string) (domain.InterviewPlan, error) {
	m.metadata = rawMetadata
	if m.err != nil {
		return domain.InterviewPlan{}, m.err
	}
	if sessionID == "" {
		sessionID = "session-1"
	}
	meta := domain.ParseRoomMetadata(rawMetadata)
	return domain.InterviewPlan{
		SessionID:       sessionID,
		InterviewType:   meta.InterviewType,
		CandidateInfo:   meta.CandidateInfo,
		SystemPrompt:    "You are an interviewer.",
		SampleQuestions: []string{"Tell me about yourself."},
		Greeting:        domain.Greeting,
	}, nil
}

type mockEvaluator struct {
	sessions map[string]*domain.SessionMetrics
	ended    []string
}

func newMockEvaluator() *mockEvaluator {
	return &mockEvaluator{sessions: make(map[string]*domain.SessionMetrics)}
}

func (m *mockEvaluator) StartSession(_ context.Context, id string, t domain.InterviewType) domain.SessionMetrics {
	metrics := domain.NewSessionMetrics(id, t, fixedTime)
	m.sessions[id] = metrics
	return metrics.Clone()
}

func (m *mockEvaluator) EvaluateResponse(_ context.Context, id, _, _ string) domain.ResponseScore {
	score := domain.NewResponseScore("Score: 7/10")
	score.Overall = 7
	if metrics, ok := m.sessions[id]; ok {
		metrics.AddScore(score)
	}
	return score
}

func (m *mockEvaluator) EndSession(_ context.Context, id string) (domain.SessionMetrics, bool) {
	metrics, ok := m.sessions[id]
	if !ok {
		return domain.SessionMetrics{}, false
	}
	delete(m.sessions, id)
	m.ended = append(m.ended, id)
	metrics.End(fixedTime.Add(20 * time.Minute))
	return *metrics, true
}

func (m *mockEvaluator) GetSession(_ context.Context, id string) (domain.SessionMetrics, bool) {
	metrics, ok := m.sessions[id]
	if !ok {
		return domain.SessionMetrics{}, false
	}
	return metrics.Clone(), true
}

func (m *mockEvaluator) ListSessions(context.Context, int) ([]domain.SessionMetrics, error) {
	return nil, nil
}

func (m *mockEvaluator) LoadSession(_ context.Context, id string) (*domain.SessionMetrics, error) {
	if metrics, ok := m.sessions[id]; ok {
		c := metrics.Clone()
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func newTestApp(t *testing.T, coach *mockCoach, eval *mockEvaluator) *App {
	t.Helper()
	app, err := NewApp(&Ports{Coach: coach, Evaluator: eval})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// run feeds a message and then any application message its command produces.
// Cursor blink ticks are dropped.
func run(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case messages.PlanReady, messages.AnswerScored, messages.SessionEnded,
			messages.ViewChanged, messages.ErrorOccurred:
			queue = append(queue, out)
		}
	}
}

func TestNewApp_RequiresPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingCoach)
}

func TestApp_InitialState(t *testing.T) {
	app, err := NewApp(&Ports{Coach: &mockCoach{}, Evaluator: newMockEvaluator()})
	require.NoError(t, err)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app, err := NewApp(&Ports{Coach: &mockCoach{}, Evaluator: newMockEvaluator()})
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Interview Pilot")
}

func TestApp_InterviewRequestedPreparesPlan(t *testing.T) {
	coach := &mockCoach{}
	eval := newMockEvaluator()
	app := newTestApp(t, coach, eval).WithCandidateInfo("Backend engineer")

	run(app, messages.InterviewRequested{Type: domain.InterviewTechnical})

	require.NotNil(t, app.Plan())
	assert.Equal(t, messages.ViewInterview, app.CurrentView())
	assert.Equal(t, domain.InterviewTechnical, app.Plan().InterviewType)
	assert.Contains(t, coach.metadata, `"interview_type":"technical"`)
	assert.Contains(t, coach.metadata, "Backend engineer")
}

func TestApp_PlanErrorStaysOnMenu(t *testing.T) {
	coach := &mockCoach{err: errors.New("knowledge base offline")}
	app := newTestApp(t, coach, newMockEvaluator())

	run(app, messages.InterviewRequested{Type: domain.InterviewBehavioral})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Nil(t, app.Plan())
	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "knowledge base offline")
}

func TestApp_SessionEndedShowsSummary(t *testing.T) {
	eval := newMockEvaluator()
	app := newTestApp(t, &mockCoach{}, eval)

	metrics := domain.NewSessionMetrics("s-9", domain.InterviewBehavioral, fixedTime)
	score := domain.NewResponseScore("raw")
	score.Overall = 8
	metrics.AddScore(score)
	metrics.End(fixedTime.Add(15 * time.Minute))

	app.Update(messages.SessionEnded{Metrics: *metrics})

	assert.Equal(t, messages.ViewSummary, app.CurrentView())
	assert.Nil(t, app.Plan())
	assert.Contains(t, app.View(), "Behavioral")
}

func TestApp_SessionEndedWithError(t *testing.T) {
	app := newTestApp(t, &mockCoach{}, newMockEvaluator())

	app.Update(messages.SessionEnded{Err: domain.ErrNotFound})

	assert.Equal(t, messages.ViewSummary, app.CurrentView())
	assert.Contains(t, app.View(), "not found")
}

func TestApp_EscFromInterviewEndsSession(t *testing.T) {
	eval := newMockEvaluator()
	app := newTestApp(t, &mockCoach{}, eval)

	run(app, messages.InterviewRequested{Type: domain.InterviewBehavioral})
	require.NotNil(t, app.Plan())
	id := app.Plan().SessionID
	eval.StartSession(context.Background(), id, domain.InterviewBehavioral)

	run(app, messages.ViewChanged{View: messages.ViewMenu})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Nil(t, app.Plan())
	assert.Equal(t, []string{id}, eval.ended)
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, &mockCoach{}, newMockEvaluator())

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.True(t, strings.HasPrefix(app.View(), "Help"))

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, &mockCoach{}, newMockEvaluator())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, &mockCoach{}, newMockEvaluator())

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
