package labeledspinner_test

import (
	"testing"

	"github.com/alkime/scriptcut/internal/tui/components/labeledspinner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabeledSpinner(t *testing.T) {
	m := labeledspinner.New(spinner.Dot, "Working", "ctrl+r start over")
	t.Run("initial state", func(t *testing.T) {
		assert.Equal(t, "Working", m.Title)
		assert.Equal(t, "ctrl+r start over", m.Help)
		assert.Equal(t, spinner.Dot, m.Spinner.Spinner)
	})

	t.Run("view output", func(t *testing.T) {
		v := m.View()
		assert.Contains(t, v, "Working")
		assert.Contains(t, v, "ctrl+r start over")
		assert.Contains(t, v, spinner.Dot.Frames[0])
	})

	t.Run("detail line", func(t *testing.T) {
		assert.Contains(t, m.ViewWithDetail("Transcribing audio..."), "Transcribing audio...")
		assert.NotContains(t, m.View(), "Transcribing")
	})

	t.Run("check updates", func(t *testing.T) {
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[1])
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[2])
	})
}
