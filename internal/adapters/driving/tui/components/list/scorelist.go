// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// Entry is one scored answer.
type Entry struct {
	Question string
	Answer   string
	Score    domain.ResponseScore
}

// ScoreList displays scored answers in a navigable list. The selected
// entry is expanded with its strengths and improvements.
type ScoreList struct {
	entries  []Entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewScoreList creates a new score list component.
func NewScoreList(s *styles.Styles) *ScoreList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ScoreList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the score list.
func (r *ScoreList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ScoreList) Update(msg tea.Msg) (*ScoreList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the score list.
func (r *ScoreList) View() string {
	if len(r.entries) == 0 {
		return r.styles.Muted.Render("No answers scored yet")
	}

	lines := make([]string, 0, len(r.entries)+8)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Feedback (%d)", len(r.entries)))
	lines = append(lines, header, "")

	// Detail lines for the selected entry take the rest of the height.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.entries) {
		end = len(r.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderEntry(i, &r.entries[i]))
	}

	return strings.Join(lines, "\n")
}

// renderEntry formats a single scored answer.
func (r *ScoreList) renderEntry(index int, entry *Entry) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxLen := r.width - 12
	if maxLen < 10 {
		maxLen = 10
	}
	question := truncate(entry.Question, maxLen)
	score := r.styles.Score(entry.Score.Overall).Render(fmt.Sprintf("%2d/10", entry.Score.Overall))

	var line string
	if index == r.selected {
		line = r.styles.Selected.Render(indicator+question) + "  " + score
	} else {
		line = r.styles.Normal.Render(indicator+question) + "  " + score
	}

	if index != r.selected {
		return line
	}

	details := make([]string, 0, len(entry.Score.Strengths)+len(entry.Score.Improvements))
	for _, s := range entry.Score.Strengths {
		details = append(details, r.styles.Success.Render("    + "+truncate(s, maxLen)))
	}
	for _, s := range entry.Score.Improvements {
		details = append(details, r.styles.Warning.Render("    - "+truncate(s, maxLen)))
	}
	if len(details) == 0 {
		return line
	}
	return line + "\n" + strings.Join(details, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// Add appends an entry and selects it.
func (r *ScoreList) Add(entry Entry) {
	r.entries = append(r.entries, entry)
	r.selected = len(r.entries) - 1
}

// SetEntries replaces the list.
func (r *ScoreList) SetEntries(entries []Entry) {
	r.entries = entries
	r.selected = 0
}

// Entries returns the current entries.
func (r *ScoreList) Entries() []Entry {
	return r.entries
}

// Selected returns the index of the selected entry.
func (r *ScoreList) Selected() int {
	return r.selected
}

// SelectedEntry returns the currently selected entry, or nil if none.
func (r *ScoreList) SelectedEntry() *Entry {
	if len(r.entries) == 0 || r.selected < 0 || r.selected >= len(r.entries) {
		return nil
	}
	return &r.entries[r.selected]
}

// MoveUp moves selection up.
func (r *ScoreList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ScoreList) MoveDown() {
	if r.selected < len(r.entries)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ScoreList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of entries.
func (r *ScoreList) Count() int {
	return len(r.entries)
}
