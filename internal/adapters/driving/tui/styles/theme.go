// Package styles holds the lipgloss styles shared by the practice TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Score bands. A score at or above GoodScore is shown as a success and one
// at or above FairScore as a warning; anything lower is an error.
const (
	GoodScore = 8
	FairScore = 5
)

// Palette is the set of colours the styles are built from.
type Palette struct {
	Accent  lipgloss.Color
	Prompt  lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Good    lipgloss.Color
	Fair    lipgloss.Color
	Poor    lipgloss.Color
	Frame   lipgloss.Color
	BarFill lipgloss.Color
}

// DefaultPalette is a dark palette.
func DefaultPalette() Palette {
	return Palette{
		Accent:  lipgloss.Color("#7C3AED"),
		Prompt:  lipgloss.Color("#06B6D4"),
		Text:    lipgloss.Color("#CDD6F4"),
		Dim:     lipgloss.Color("#6C7086"),
		Good:    lipgloss.Color("#A6E3A1"),
		Fair:    lipgloss.Color("#F9E2AF"),
		Poor:    lipgloss.Color("#F38BA8"),
		Frame:   lipgloss.Color("#45475A"),
		BarFill: lipgloss.Color("#181825"),
	}
}

// Styles are the rendered styles used across views.
type Styles struct {
	palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style

	// Question renders the interviewer's current question.
	Question lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// InputField frames the answer box.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles builds styles from p.
func NewStyles(p Palette) *Styles {
	return &Styles{
		palette: p,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Prompt),
		Normal:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Dim),
		Help:     lipgloss.NewStyle().Foreground(p.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),

		Question: lipgloss.NewStyle().Foreground(p.Prompt).PaddingLeft(2),

		Success: lipgloss.NewStyle().Foreground(p.Good),
		Warning: lipgloss.NewStyle().Foreground(p.Fair),
		Error:   lipgloss.NewStyle().Foreground(p.Poor),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Dim).
			Background(p.BarFill).
			Padding(0, 1),
	}
}

// DefaultStyles uses DefaultPalette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}

// Palette returns the colours the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// Score returns the bold style for a 1..10 score band.
func (s *Styles) Score(n int) lipgloss.Style {
	switch {
	case n >= GoodScore:
		return s.Success.Bold(true)
	case n >= FairScore:
		return s.Warning.Bold(true)
	default:
		return s.Error.Bold(true)
	}
}
