// Package progressbar renders a pipeline.ProgressIndicator with a bubbles
// progress bar.
package progressbar

import (
	"fmt"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/style"
	"github.com/charmbracelet/bubbles/progress"
)

const labelWidth = 12

// Model draws one stage's progress. It holds no value of its own; the
// indicator passed to View is the source of truth.
type Model struct {
	label string
	bar   progress.Model
}

// New creates a bar labelled with label.
func New(label string, width int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m := Model{label: label, bar: bar}
	m.SetWidth(width)

	return m
}

// SetWidth resizes the bar to fit width columns including its label.
func (m *Model) SetWidth(width int) {
	w := width - labelWidth - 6
	if w < 10 {
		w = 10
	}
	m.bar.Width = w
}

// View renders pi, or nothing while it is hidden.
func (m Model) View(pi pipeline.ProgressIndicator) string {
	if !pi.Visible() {
		return ""
	}

	label := style.Label.Width(labelWidth).Render(m.label)
	pct := style.Subtitle.Render(fmt.Sprintf("%3d%%", pi.Value()))

	return label + m.bar.ViewAs(pi.Percent()) + " " + pct
}
