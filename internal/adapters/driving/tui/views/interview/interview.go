// Package interview provides the question and answer view for the TUI.
package interview

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driving"
)

// ErrNoEvaluator indicates that no evaluator was provided.
var ErrNoEvaluator = errors.New("response evaluator is required")

// fallbackQuestions open an interview whose knowledge base has no Q&A chunks.
var fallbackQuestions = map[domain.InterviewType]string{
	domain.InterviewBehavioral:   "Tell me about a time you had to resolve a disagreement within your team.",
	domain.InterviewTechnical:    "How would you detect a cycle in a linked list, and what is the complexity?",
	domain.InterviewSystemDesign: "How would you design a URL shortening service?",
}

// View represents the interview view with the current question, answer
// input, feedback list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.AnswerInput
	list      *list.ScoreList
	statusbar *status.Bar

	evaluator driving.ResponseEvaluator
	ctx       context.Context

	plan      domain.InterviewPlan
	questions []string
	current   int
	scoring   bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new interview view.
func NewView(s *styles.Styles, km *keymap.KeyMap, evaluator driving.ResponseEvaluator) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewAnswerInput(s),
		list:      list.NewScoreList(s),
		statusbar: status.NewBar(s, km),
		evaluator: evaluator,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Start resets the view for a freshly prepared plan.
func (v *View) Start(plan domain.InterviewPlan) tea.Cmd {
	v.plan = plan
	v.questions = append([]string(nil), plan.SampleQuestions...)
	if len(v.questions) == 0 {
		v.questions = []string{fallbackQuestions[plan.InterviewType]}
	}
	v.current = 0
	v.scoring = false
	v.err = nil
	v.list.SetEntries(nil)
	v.input.Reset()
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateAnswering)
	return v.input.Focus()
}

// Update handles messages for the interview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerScored:
		v.handleAnswerScored(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.scoring = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.EndSession):
		return v, v.endSession()

	case keymap.Matches(msg.String(), v.keymap.NextQuestion):
		v.advance()
		return v, nil
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case tea.KeyEnter:
		answer := strings.TrimSpace(v.input.Value())
		question := v.Question()
		if answer == "" || question == "" || v.scoring {
			return v, nil
		}
		v.scoring = true
		v.statusbar.SetState(status.StateScoring)
		return v, v.evaluate(question, answer)

	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil

	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// evaluate scores an answer in the background.
func (v *View) evaluate(question, answer string) tea.Cmd {
	sessionID := v.plan.SessionID
	return func() tea.Msg {
		if v.evaluator == nil {
			return messages.ErrorOccurred{Err: ErrNoEvaluator}
		}
		score := v.evaluator.EvaluateResponse(v.ctx, sessionID, question, answer)
		return messages.AnswerScored{Question: question, Answer: answer, Score: score}
	}
}

// endSession closes the session and reports its metrics.
func (v *View) endSession() tea.Cmd {
	sessionID := v.plan.SessionID
	return func() tea.Msg {
		if v.evaluator == nil {
			return messages.SessionEnded{Err: ErrNoEvaluator}
		}
		metrics, ok := v.evaluator.EndSession(v.ctx, sessionID)
		if !ok {
			return messages.SessionEnded{Err: domain.ErrNotFound}
		}
		return messages.SessionEnded{Metrics: metrics}
	}
}

// handleAnswerScored records the score and moves to the next question.
func (v *View) handleAnswerScored(msg messages.AnswerScored) {
	v.scoring = false
	v.err = nil
	v.list.Add(list.Entry{Question: msg.Question, Answer: msg.Answer, Score: msg.Score})
	v.input.Reset()

	total := 0
	for _, e := range v.list.Entries() {
		total += e.Score.Overall
	}
	v.statusbar.SetState(status.StateAnswering)
	v.statusbar.SetProgress(v.list.Count(), float64(total)/float64(v.list.Count()))
	v.advance()
}

func (v *View) advance() {
	if v.current < len(v.questions) {
		v.current++
	}
}

// View renders the interview view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	header := v.styles.Title.Render(v.plan.InterviewType.DisplayName() + " Interview")
	sections = append(sections, header, "")

	if v.list.Count() == 0 && v.current == 0 {
		sections = append(sections, v.styles.Muted.Render(v.plan.Greeting), "")
	}

	if q := v.Question(); q != "" {
		sections = append(sections, v.styles.Subtitle.Render("Question:"), v.styles.Question.Render(q), "", v.input.View(), "")
	} else {
		sections = append(sections, v.styles.Muted.Render("No more questions. Press ctrl+e to see your summary."), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12) // header, question, input and status
	v.statusbar.SetWidth(width)
}

// Question returns the current question, or "" when all were asked.
func (v *View) Question() string {
	if v.current >= len(v.questions) {
		return ""
	}
	return v.questions[v.current]
}

// Plan returns the active plan.
func (v *View) Plan() domain.InterviewPlan {
	return v.plan
}

// Entries returns the scored answers so far.
func (v *View) Entries() []list.Entry {
	return v.list.Entries()
}

// Scoring reports whether an evaluation is in flight.
func (v *View) Scoring() bool {
	return v.scoring
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// SetAnswer sets the answer input (for testing).
func (v *View) SetAnswer(answer string) {
	v.input.SetValue(answer)
}
