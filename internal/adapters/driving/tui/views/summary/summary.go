// Package summary provides the end-of-session report view for the TUI.
package summary

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// trendLabels describe the score trend in words.
var trendLabels = map[domain.ScoreTrend]string{
	domain.TrendNotEnoughData: "not enough answers to tell",
	domain.TrendImproving:     "improving",
	domain.TrendDeclining:     "declining",
	domain.TrendStable:        "stable",
}

// View is the session summary view.
type View struct {
	styles *styles.Styles

	summary *domain.SessionSummary
	width   int
	height  int
	ready   bool
	err     error
}

// NewView creates a new summary view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetSummary sets the summary to display.
func (v *View) SetSummary(summary domain.SessionSummary) {
	v.summary = &summary
	v.err = nil
}

// SetError sets an error to display instead of a summary.
func (v *View) SetError(err error) {
	v.summary = nil
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the summary view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the summary.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Session Summary"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if s := v.summary; s != nil {
		b.WriteString(v.formatField("Interview", s.InterviewType.DisplayName()))
		b.WriteString(v.formatField("Duration", fmt.Sprintf("%.1f minutes", s.DurationMinutes)))
		b.WriteString(v.formatField("Questions", fmt.Sprintf("%d", s.QuestionsAnswered)))
		b.WriteString(v.formatField("Average", v.styles.Score(int(s.AverageScore+0.5)).Render(fmt.Sprintf("%.1f / 10", s.AverageScore))))
		b.WriteString(v.formatField("Trend", trendLabels[s.ScoreTrend]))

		v.writeList(&b, "Top strengths", s.TopStrengths, v.styles.Success.Render("+ "))
		v.writeList(&b, "Areas to improve", s.AreasToImprove, v.styles.Warning.Render("- "))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter/esc] menu  [q] quit"))
	return b.String()
}

func (v *View) formatField(label, value string) string {
	return v.styles.Muted.Render(fmt.Sprintf("%-10s", label+":")) + " " + v.styles.Normal.Render(value) + "\n"
}

func (v *View) writeList(b *strings.Builder, title string, items []string, bullet string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  " + bullet + v.styles.Normal.Render(item) + "\n")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Summary returns the displayed summary, or nil.
func (v *View) Summary() *domain.SessionSummary {
	return v.summary
}
