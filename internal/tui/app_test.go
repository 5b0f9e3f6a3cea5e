//nolint:funlen // Test file
package tui_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/tui"
	"github.com/alkime/scriptcut/internal/tui/workflow"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestApp_FullRun(t *testing.T) {
	checker := outputChecker{intervl: 20 * time.Millisecond, timeout: 3 * time.Second}
	fb := newStageBackend()

	m := tui.New(tui.Config{
		Backend:    fb,
		Editor:     upperEditor{},
		MediaPath:  writeMedia(t),
		BackendURL: "http://backend.test",
		Logger:     discardLogger(),
		CoordinatorOptions: []workflow.CoordinatorOption{
			workflow.WithPollInterval(10 * time.Millisecond),
		},
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 80))

	t.Run("starts on the upload section", func(t *testing.T) {
		checker.CheckString(t, tm, "▶ Upload & Transcribe")
	})

	t.Run("upload shows the transcript", func(t *testing.T) {
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		checker.CheckString(t, tm, "Hello from the transcript")
	})

	t.Run("confirming the script opens the settings", func(t *testing.T) {
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		checker.CheckString(t, tm, "Please configure the AI generation settings.")
	})

	t.Run("generating shows the AI script", func(t *testing.T) {
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		checker.CheckString(t, tm, "AI script generated, please review it.")
	})

	t.Run("external edit replaces the AI script", func(t *testing.T) {
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlE})
		checker.CheckString(t, tm, "AI HELLO")
	})

	t.Run("applying effects shows the download link", func(t *testing.T) {
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
		checker.CheckString(t, tm, "http://backend.test/download_video/v1")
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	ai, final := fb.requests()
	assert.Equal(t, "v1", ai.VideoID)
	assert.Equal(t, "Hello from the transcript", ai.OriginalScript)
	assert.Equal(t, "joyful", ai.Theme)
	assert.Equal(t, "openai", ai.LLMProvider)
	assert.Equal(t, "POST", ai.APIMethod)
	assert.Equal(t, "AI HELLO", final.AIScript)
}

func TestApp_FailureResetsToUpload(t *testing.T) {
	checker := outputChecker{intervl: 20 * time.Millisecond, timeout: 3 * time.Second}
	fb := newStageBackend()
	fb.aiErr = &backend.RequestError{Op: "generate ai script", StatusCode: http.StatusBadRequest, Message: "bad theme"}

	m := tui.New(tui.Config{
		Backend:   fb,
		MediaPath: writeMedia(t),
		Logger:    discardLogger(),
		CoordinatorOptions: []workflow.CoordinatorOption{
			workflow.WithPollInterval(10 * time.Millisecond),
		},
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 80))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.CheckString(t, tm, "Hello from the transcript")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.CheckString(t, tm, "Please configure the AI generation settings.")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.CheckString(t, tm, "Error: bad theme")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

func TestApp_ValidationKeepsUploadActive(t *testing.T) {
	m := tui.New(tui.Config{Backend: newStageBackend(), Logger: discardLogger()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	s := m.Session()
	assert.True(t, s.Status.IsError)
	assert.Equal(t, "Please choose a video file first.", s.Status.Text)
	assert.Contains(t, m.View(), "Error: Please choose a video file first.")
	assert.Contains(t, m.View(), "▶ Upload & Transcribe")
}

func TestApp_StartOver(t *testing.T) {
	m := tui.New(tui.Config{Backend: newStageBackend(), MediaPath: writeMedia(t), Logger: discardLogger()})

	cmd := m.Init()
	require.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "upload is submitted")
	assert.NotContains(t, m.View(), "▶ Upload", "upload is disabled while in flight")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())

	assert.Contains(t, m.View(), "▶ Upload & Transcribe")
	assert.Empty(t, m.Session().MediaPath)
}

// stageBackend completes every stage after one pending poll.
type stageBackend struct {
	mu sync.Mutex

	aiErr error
	stage string
	polls int

	lastAI    backend.AIScriptRequest
	lastFinal backend.FinalVideoRequest
}

func newStageBackend() *stageBackend {
	return &stageBackend{}
}

func (b *stageBackend) enter(stage string) {
	b.stage = stage
	b.polls = 0
}

func (b *stageBackend) UploadAndTranscribe(_ context.Context, _ backend.UploadRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enter("transcribe")
	return "v1", nil
}

func (b *stageBackend) GenerateAIScript(_ context.Context, req backend.AIScriptRequest) (backend.SubmitResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAI = req
	if b.aiErr != nil {
		return backend.SubmitResponse{}, b.aiErr
	}
	b.enter("ai_script_gen")
	return backend.SubmitResponse{Message: "started"}, nil
}

func (b *stageBackend) GenerateFinalVideo(_ context.Context, req backend.FinalVideoRequest) (backend.SubmitResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFinal = req
	b.enter("video_gen")
	return backend.SubmitResponse{Message: "started"}, nil
}

func (b *stageBackend) Status(_ context.Context, _ string) (backend.StatusResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++
	if b.polls == 1 {
		return backend.StatusResponse{Status: "pending", Progress: 50, Message: "working on " + b.stage}, nil
	}

	resp := backend.StatusResponse{Status: "completed", Progress: 100, Stage: b.stage}
	switch b.stage {
	case "transcribe":
		resp.ScriptContent = "Hello from the transcript"
	case "ai_script_gen":
		resp.AIScriptContent = "AI hello"
	}
	return resp, nil
}

func (b *stageBackend) DownloadURL(videoID string) string {
	return "http://backend.test/download_video/" + videoID
}

func (b *stageBackend) requests() (backend.AIScriptRequest, backend.FinalVideoRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAI, b.lastFinal
}

type upperEditor struct{}

func (upperEditor) Edit(script string) tea.Cmd {
	return func() tea.Msg {
		return workflow.ScriptEditedMsg{Script: strings.ToUpper(script)}
	}
}

type outputChecker struct {
	intervl, timeout time.Duration
}

func (o outputChecker) Check(t *testing.T, tm *teatest.TestModel, check func(buf []byte) bool) {
	teatest.WaitFor(t, tm.Output(), check,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func (o outputChecker) CheckString(t *testing.T, tm *teatest.TestModel, substr string) {
	o.Check(t, tm, func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	})
}

func writeMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	//nolint:gosec // Test file
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
