// Package menu provides the interview type picker for the TUI.
package menu

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// blurbs describe each interview type under its entry.
var blurbs = map[domain.InterviewType]string{
	domain.InterviewBehavioral:   "Past experience, answered with the STAR method",
	domain.InterviewTechnical:    "Coding, concepts and problem solving",
	domain.InterviewSystemDesign: "Architecture, scale and trade-offs",
}

// Item is one menu entry. Interview entries carry a Type; the rest switch
// view or quit.
type Item struct {
	Label string
	Type  domain.InterviewType
	View  messages.ViewType
	Quit  bool
}

// View is the interview type picker.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a menu with one entry per interview type.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	types := domain.InterviewTypes()
	items := make([]Item, 0, len(types)+2)
	for _, t := range types {
		items = append(items, Item{Label: t.DisplayName() + " Interview", Type: t, View: messages.ViewInterview})
	}
	items = append(items,
		Item{Label: "Help", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)

	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		items:  items,
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or activates an entry. Digits jump straight to
// the matching interview type.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.selected = max(v.selected-1, 0)
		case key.Matches(msg, v.keys.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
		case key.Matches(msg, v.keys.Select):
			return v, v.activate(v.items[v.selected])
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(v.items) {
				if item := v.items[n-1]; item.Type != "" {
					v.selected = n - 1
					return v, v.activate(item)
				}
			}
		}
	}
	return v, nil
}

func (v *View) activate(item Item) tea.Cmd {
	switch {
	case item.Quit:
		return tea.Quit
	case item.Type != "":
		return func() tea.Msg { return messages.InterviewRequested{Type: item.Type} }
	default:
		return func() tea.Msg { return messages.ViewChanged{View: item.View} }
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Interview Pilot"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Choose a mock interview"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := item.Label
		if item.Type != "" {
			label = strconv.Itoa(i+1) + ". " + label
		}
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
		if blurb, ok := blurbs[item.Type]; ok {
			b.WriteString("     " + v.styles.Muted.Render(blurb) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [1-3] start  [enter] select  [q] quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
