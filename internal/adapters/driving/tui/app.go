package tui

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/views/interview"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/views/summary"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles

	menuView      *menu.View
	interviewView *interview.View
	summaryView   *summary.View

	// candidateInfo is forwarded to the coach with every new session.
	candidateInfo string

	// plan is the active interview, nil between sessions.
	plan *domain.InterviewPlan

	currentView messages.ViewType
	preparing   bool
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		interviewView: interview.NewView(s, km, ports.Evaluator),
		summaryView:   summary.NewView(s),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.interviewView.WithContext(ctx)
	return a
}

// WithCandidateInfo sets background passed to the coach for each session.
func (a *App) WithCandidateInfo(info string) *App {
	a.candidateInfo = info
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("Interview Pilot - Practice"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewInterview:
			a.interviewView, cmd = a.interviewView.Update(msg)
		case messages.ViewSummary:
			a.summaryView, cmd = a.summaryView.Update(msg)
		case messages.ViewHelp:
			switch msg.String() {
			case "esc":
				a.currentView = messages.ViewMenu
			case "q":
				return a, tea.Quit
			}
		}
		return a, cmd

	case messages.InterviewRequested:
		if a.preparing {
			return a, nil
		}
		a.preparing = true
		a.err = nil
		return a, a.prepare(msg.Type)

	case messages.PlanReady:
		a.preparing = false
		if msg.Err != nil {
			a.err = msg.Err
			a.currentView = messages.ViewMenu
			return a, nil
		}
		plan := msg.Plan
		a.plan = &plan
		a.currentView = messages.ViewInterview
		return a, a.interviewView.Start(plan)

	case messages.AnswerScored:
		a.interviewView, cmd = a.interviewView.Update(msg)
		return a, cmd

	case messages.SessionEnded:
		a.plan = nil
		if msg.Err != nil {
			a.summaryView.SetError(msg.Err)
		} else {
			a.summaryView.SetSummary(msg.Metrics.Summary())
		}
		a.currentView = messages.ViewSummary
		return a, nil

	case messages.ViewChanged:
		if msg.View == messages.ViewMenu && a.currentView == messages.ViewInterview && a.plan != nil {
			cmd = a.abandon(a.plan.SessionID)
			a.plan = nil
		}
		a.currentView = msg.View
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewInterview {
			a.interviewView, cmd = a.interviewView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink) to the active view
	if a.currentView == messages.ViewInterview {
		a.interviewView, cmd = a.interviewView.Update(msg)
	}
	return a, cmd
}

// prepare asks the coach for a plan in the background.
func (a *App) prepare(t domain.InterviewType) tea.Cmd {
	ctx := a.ctx
	coach := a.ports.Coach
	info := a.candidateInfo
	return func() tea.Msg {
		raw, err := json.Marshal(map[string]string{
			"interview_type": t.String(),
			"candidate_info": info,
		})
		if err != nil {
			return messages.PlanReady{Err: err}
		}
		plan, err := coach.Prepare(ctx, "", string(raw))
		return messages.PlanReady{Plan: plan, Err: err}
	}
}

// abandon ends a session left via esc so its metrics are persisted.
func (a *App) abandon(sessionID string) tea.Cmd {
	ctx := a.ctx
	evaluator := a.ports.Evaluator
	return func() tea.Msg {
		evaluator.EndSession(ctx, sessionID)
		return nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewInterview:
		return a.interviewView.View()
	case messages.ViewSummary:
		return a.summaryView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}

	out := a.menuView.View()
	if a.preparing {
		out += "\n\n" + a.styles.Muted.Render("Preparing interview...")
	}
	if a.err != nil {
		out += "\n\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return out
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Menu:
  j/k, ↑/↓    Choose an interview type
  enter       Start the interview
  q           Quit

Interview:
  (type)      Write your answer
  enter       Submit the answer for scoring
  ↑/↓         Review earlier feedback
  ctrl+n      Skip to the next question
  ctrl+e      End the session and see the summary
  esc         Abandon and return to the menu

Summary:
  enter/esc   Back to the menu
  q           Quit

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Plan returns the active plan, or nil between sessions.
func (a *App) Plan() *domain.InterviewPlan {
	return a.plan
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.interviewView.SetDimensions(width, height)
	a.summaryView.SetDimensions(width, height)
}
