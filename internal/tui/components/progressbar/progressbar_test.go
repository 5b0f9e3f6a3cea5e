package progressbar_test

import (
	"testing"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/components/progressbar"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestProgressBar(t *testing.T) {
	bar := progressbar.New("Transcribe", 60)

	t.Run("hidden indicator renders nothing", func(t *testing.T) {
		assert.Empty(t, bar.View(pipeline.ProgressIndicator{}))
	})

	t.Run("visible indicator shows label and value", func(t *testing.T) {
		var pi pipeline.ProgressIndicator
		pi.Show()
		pi.Set(40)

		out := bar.View(pi)
		assert.Contains(t, out, "Transcribe")
		assert.Contains(t, out, " 40%")
	})

	t.Run("values are clamped before rendering", func(t *testing.T) {
		var pi pipeline.ProgressIndicator
		pi.Show()
		pi.Set(250)

		assert.Contains(t, bar.View(pi), "100%")
	})
}
