// Package sections renders the workflow regions as a vertical list where
// exactly one region is interactive at a time.
package sections

import (
	"strings"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/style"
)

// State is how a region is drawn.
type State int

const (
	// Disabled regions are ahead of the workflow and show only their heading.
	Disabled State = iota
	// Done regions are behind the workflow and keep their populated text.
	Done
	// Busy is the current region while its backend job runs.
	Busy
	// Active is the region accepting input.
	Active
)

func (s State) marker() string {
	switch s {
	case Active:
		return "▶"
	case Busy:
		return "…"
	case Done:
		return "✓"
	default:
		return "·"
	}
}

// Section is one rendered region.
type Section struct {
	Title string
	State State
	Body  string
}

// StateOf derives a region's State from the gates and the current region,
// which is the last one activated.
func StateOf(gates pipeline.Gates, current, s pipeline.Section) State {
	switch {
	case s < current:
		return Done
	case s > current:
		return Disabled
	case gates.IsActive(s):
		return Active
	default:
		return Busy
	}
}

// Model lays out the regions in order.
type Model struct {
	width int
}

// New creates a section list for the given width.
func New(width int) Model {
	return Model{width: width}
}

// SetWidth changes the layout width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// View renders the regions. Disabled regions render their heading only.
func (m Model) View(items []Section) string {
	var sb strings.Builder

	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.heading(item))
		sb.WriteString("\n")

		if item.State == Disabled || item.Body == "" {
			continue
		}

		frame := style.InertSection
		if item.State == Active {
			frame = style.Section
		}
		if m.width > 4 {
			frame = frame.Width(m.width - 2)
		}
		sb.WriteString(frame.Render(item.Body))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) heading(item Section) string {
	text := item.State.marker() + " " + item.Title

	switch item.State {
	case Active:
		return style.Title.Render(text)
	case Busy:
		return style.Label.Render(text)
	case Done:
		return style.Success.Render(text)
	default:
		return style.Muted.Render(text)
	}
}
