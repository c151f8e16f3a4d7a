// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// InterviewRequested asks the app to prepare a session of the given type.
type InterviewRequested struct {
	Type domain.InterviewType
}

// PlanReady carries the prepared interview plan back to the model.
type PlanReady struct {
	Plan domain.InterviewPlan
	Err  error
}

// AnswerSubmitted is sent when the candidate submits an answer.
type AnswerSubmitted struct {
	Question string
	Answer   string
}

// AnswerScored carries an evaluation back to the model.
type AnswerScored struct {
	Question string
	Answer   string
	Score    domain.ResponseScore
}

// EndRequested asks the app to finish the current session.
type EndRequested struct{}

// SessionEnded carries the final metrics of a session.
type SessionEnded struct {
	Metrics domain.SessionMetrics
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the interview type picker.
	ViewMenu ViewType = iota
	// ViewInterview is the question, answer and feedback loop.
	ViewInterview
	// ViewSummary shows the end-of-session report.
	ViewSummary
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewInterview:
		return "interview"
	case ViewSummary:
		return "summary"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
