package pipeline_test

import (
	"testing"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGates_InitialOnlyUploadActive(t *testing.T) {
	g := pipeline.NewGates()

	assert.Equal(t, []pipeline.Section{pipeline.SectionUpload}, g.ActiveSections())
}

func TestGates_ActivateIsExclusive(t *testing.T) {
	g := pipeline.NewGates()

	for _, s := range pipeline.AllSections() {
		g.Activate(s)
		require.Equal(t, []pipeline.Section{s}, g.ActiveSections(), "only %s should be active", s.Title())
	}
}

func TestGates_DisableLeavesNoneActive(t *testing.T) {
	g := pipeline.NewGates()
	g.Disable(pipeline.SectionUpload)

	assert.Empty(t, g.ActiveSections())
	assert.False(t, g.IsActive(pipeline.SectionUpload))
	assert.False(t, g.Gate(pipeline.Section(99)).Active(), "out of range gate is never active")
}

func TestProgressIndicator_Clamps(t *testing.T) {
	var p pipeline.ProgressIndicator
	p.Show()
	assert.True(t, p.Visible())
	assert.Equal(t, 0, p.Value())

	p.Set(140)
	assert.Equal(t, 100, p.Value())
	assert.InDelta(t, 1.0, p.Percent(), 0.0001)

	p.Set(-5)
	assert.Equal(t, 0, p.Value())
}

func TestStage_SectionsAndTags(t *testing.T) {
	tests := []struct {
		stage   pipeline.Stage
		section pipeline.Section
		next    pipeline.Section
		tag     pipeline.StageTag
		polled  bool
	}{
		{pipeline.StageUpload, pipeline.SectionUpload, pipeline.SectionScript, pipeline.TagTranscribe, true},
		{pipeline.StageScriptConfirm, pipeline.SectionScript, pipeline.SectionAISettings, "", false},
		{pipeline.StageAIScriptGen, pipeline.SectionAISettings, pipeline.SectionAIPreview, pipeline.TagAIScriptGen, true},
		{pipeline.StageEffectsApply, pipeline.SectionAIPreview, pipeline.SectionFinalVideo, pipeline.TagVideoGen, true},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			assert.Equal(t, tt.section, tt.stage.Section())
			assert.Equal(t, tt.next, tt.stage.NextSection())

			tag, ok := tt.stage.Tag()
			assert.Equal(t, tt.polled, ok)
			assert.Equal(t, tt.tag, tag)
			if ok {
				assert.Equal(t, tt.stage, tag.Stage())
			}
		})
	}
}

func TestStatusSnapshot_PayloadFallbacks(t *testing.T) {
	empty := pipeline.StatusSnapshot{Status: pipeline.StatusCompleted}
	assert.Equal(t, pipeline.NoScriptContent, empty.Payload(pipeline.TagTranscribe))
	assert.Equal(t, pipeline.NoAIScriptContent, empty.Payload(pipeline.TagAIScriptGen))
	assert.Empty(t, empty.Payload(pipeline.TagVideoGen))
	assert.Equal(t, pipeline.UnknownJobError, empty.FailureText())

	full := pipeline.StatusSnapshot{ScriptContent: "Hello", AIScriptContent: "Hi", Error: "boom"}
	assert.Equal(t, "Hello", full.Payload(pipeline.TagTranscribe))
	assert.Equal(t, "Hi", full.Payload(pipeline.TagAIScriptGen))
	assert.Equal(t, "boom", full.FailureText())
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, pipeline.StatusCompleted.Terminal())
	assert.True(t, pipeline.StatusFailed.Terminal())
	assert.False(t, pipeline.StatusPending.Terminal())
	assert.False(t, pipeline.Status("not_found").Terminal())
}

func TestAISettings_ProviderPrefill(t *testing.T) {
	s := pipeline.DefaultAISettings()
	assert.Equal(t, pipeline.DefaultTheme, s.Theme)
	assert.Equal(t, "POST", s.LLM.Method)

	s.SelectProvider(pipeline.ProviderClaude)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", s.LLM.URL)

	s.SelectProvider(pipeline.ProviderCustom)
	assert.Empty(t, s.LLM.URL, "custom provider leaves the URL for manual entry")

	assert.Equal(t, pipeline.ProviderOpenAI, pipeline.ProviderCustom.Next())

	_, err := pipeline.ParseProvider("mistral")
	require.Error(t, err)
	p, err := pipeline.ParseProvider("gemini")
	require.NoError(t, err)
	assert.Equal(t, pipeline.ProviderGemini, p)
}

func TestNewSession_IsComparable(t *testing.T) {
	a := pipeline.NewSession()
	b := pipeline.NewSession()
	assert.Equal(t, a, b)

	a.Progress.For(pipeline.TagTranscribe).Set(40)
	assert.NotEqual(t, a, b, "progress participates in equality")
	assert.Equal(t, 0, b.Progress.Get(pipeline.TagTranscribe).Value(), "copies do not share progress")
}

func TestErrorKind_ResetsWorkflow(t *testing.T) {
	assert.False(t, pipeline.KindValidation.ResetsWorkflow())
	assert.True(t, pipeline.KindRequest.ResetsWorkflow())
	assert.True(t, pipeline.KindTransport.ResetsWorkflow())
	assert.True(t, pipeline.KindJobFailure.ResetsWorkflow())
}
