package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alkime/scriptcut/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements Backend with scripted responses.
type fakeBackend struct {
	mu sync.Mutex

	uploadID  string
	uploadErr error
	aiErr     error
	finalErr  error

	// statuses are returned in order; the last one repeats.
	statuses  []backend.StatusResponse
	statusErr error

	calls     map[string]int
	lastAI    backend.AIScriptRequest
	lastFinal backend.FinalVideoRequest
	lastPoll  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{uploadID: "v1", calls: map[string]int{}}
}

func (f *fakeBackend) UploadAndTranscribe(_ context.Context, _ backend.UploadRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["upload"]++
	return f.uploadID, f.uploadErr
}

func (f *fakeBackend) GenerateAIScript(_ context.Context, req backend.AIScriptRequest) (backend.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ai"]++
	f.lastAI = req
	return backend.SubmitResponse{}, f.aiErr
}

func (f *fakeBackend) GenerateFinalVideo(_ context.Context, req backend.FinalVideoRequest) (backend.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["final"]++
	f.lastFinal = req
	return backend.SubmitResponse{}, f.finalErr
}

func (f *fakeBackend) Status(_ context.Context, videoID string) (backend.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["status"]++
	f.lastPoll = videoID
	if f.statusErr != nil {
		return backend.StatusResponse{}, f.statusErr
	}
	if len(f.statuses) == 0 {
		return backend.StatusResponse{Status: "pending"}, nil
	}
	resp := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return resp, nil
}

func (f *fakeBackend) DownloadURL(videoID string) string {
	return "http://backend.test/download_video/" + videoID
}

func (f *fakeBackend) script(statuses ...backend.StatusResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = statuses
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// manualClock captures scheduled ticks so tests fire them explicitly.
type manualClock struct {
	pending   []func(time.Time) tea.Msg
	intervals []time.Duration
}

func (m *manualClock) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		m.pending = append(m.pending, fn)
		m.intervals = append(m.intervals, d)
		return nil
	}
}

// harness pumps commands through an update function the way the bubbletea
// runtime would, but synchronously and in order.
type harness struct {
	t       *testing.T
	backend *fakeBackend
	clock   *manualClock
	coord   *Coordinator
	update  func(tea.Msg) tea.Cmd
	emitted []tea.Msg
	quit    bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		backend: newFakeBackend(),
		clock:   &manualClock{},
	}
	h.coord = NewCoordinator(h.backend,
		WithLogger(discardLogger()),
		WithScheduler(h.clock.schedule),
	)
	h.update = h.coord.Update
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 10_000, "command pump did not settle")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			h.quit = true
		default:
			h.emitted = append(h.emitted, msg)
			queue = append(queue, h.update(msg))
		}
	}
}

// tick fires every scheduled tick and pumps the results.
func (h *harness) tick() {
	h.t.Helper()
	pending := h.clock.pending
	h.clock.pending = nil
	for _, fn := range pending {
		msg := fn(time.Time{})
		h.emitted = append(h.emitted, msg)
		h.run(h.update(msg))
	}
}

func (h *harness) ticks(n int) {
	h.t.Helper()
	for range n {
		h.tick()
	}
}

func (h *harness) uploadOK() {
	h.t.Helper()
	h.run(h.coord.SubmitUpload(writeMedia(h.t), nil))
	require.Equal(h.t, "v1", h.coord.JobID())
}

// advanceToAISettings drives a fresh harness through upload and script confirm.
func (h *harness) advanceToAISettings() {
	h.t.Helper()
	h.backend.script(backend.StatusResponse{Status: "completed", Progress: 100, ScriptContent: "Hello"})
	h.uploadOK()
	h.tick()
	h.run(h.coord.ConfirmScript())
}

// advanceToPreview continues through AI script generation.
func (h *harness) advanceToPreview() {
	h.t.Helper()
	h.advanceToAISettings()
	h.backend.script(backend.StatusResponse{Status: "completed", Progress: 100, AIScriptContent: "AI Hello"})
	h.run(h.coord.SubmitAIScript(h.coord.Session().Settings))
	h.tick()
}

func emittedOf[T any](h *harness) []T {
	var out []T
	for _, m := range h.emitted {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
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

var errConnRefused = errors.New("connection refused")

var (
	_ ScriptEditor = (*ExternalEditor)(nil)
	_ Backend      = (*fakeBackend)(nil)
	_ Backend      = (*backend.Client)(nil)
)
