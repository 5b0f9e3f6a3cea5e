// Package labeledspinner shows that a backend job is running.
package labeledspinner

import (
	"strings"

	"github.com/alkime/scriptcut/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is a spinner followed by a title, with an optional detail line and
// help text underneath.
type Model struct {
	Spinner spinner.Model
	Title   string
	Help    string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, title, help string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Title:   title,
		Help:    help,
	}
}

// Init starts the spinner.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

// View renders the spinner with no detail line.
func (ls Model) View() string {
	return ls.ViewWithDetail("")
}

// ViewWithDetail renders the spinner with a detail line computed at render
// time, such as the latest backend status message.
func (ls Model) ViewWithDetail(detail string) string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Label.Render(ls.Title))

	if detail != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Subtitle.Render(detail))
	}

	if ls.Help != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Help.Render(ls.Help))
	}

	return sb.String()
}
