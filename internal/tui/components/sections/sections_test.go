package sections_test

import (
	"strings"
	"testing"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/components/sections"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestStateOf(t *testing.T) {
	gates := pipeline.NewGates()
	gates.Activate(pipeline.SectionAISettings)

	states := []sections.State{}
	for _, s := range pipeline.AllSections() {
		states = append(states, sections.StateOf(gates, pipeline.SectionAISettings, s))
	}
	assert.Equal(t, []sections.State{
		sections.Done, sections.Done, sections.Active, sections.Disabled, sections.Disabled,
	}, states)

	gates.Disable(pipeline.SectionAISettings)
	assert.Equal(t, sections.Busy, sections.StateOf(gates, pipeline.SectionAISettings, pipeline.SectionAISettings))
}

func TestView(t *testing.T) {
	m := sections.New(60)

	out := m.View([]sections.Section{
		{Title: "Upload & Transcribe", State: sections.Done, Body: "clip.mp4"},
		{Title: "Original Script", State: sections.Active, Body: "Hello there"},
		{Title: "AI Settings", State: sections.Disabled, Body: "hidden body"},
	})

	t.Run("headings carry state markers", func(t *testing.T) {
		assert.Contains(t, out, "✓ Upload & Transcribe")
		assert.Contains(t, out, "▶ Original Script")
		assert.Contains(t, out, "· AI Settings")
	})

	t.Run("bodies of done and active sections are shown", func(t *testing.T) {
		assert.Contains(t, out, "clip.mp4")
		assert.Contains(t, out, "Hello there")
	})

	t.Run("disabled sections show only their heading", func(t *testing.T) {
		assert.NotContains(t, out, "hidden body")
	})

	t.Run("order is preserved", func(t *testing.T) {
		assert.Less(t, strings.Index(out, "Upload"), strings.Index(out, "Original"))
		assert.Less(t, strings.Index(out, "Original"), strings.Index(out, "AI Settings"))
	})
}
