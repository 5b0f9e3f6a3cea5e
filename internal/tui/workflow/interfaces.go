package workflow

import (
	"context"

	"github.com/alkime/scriptcut/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend is the processing service the stages submit to and poll.
type Backend interface {
	UploadAndTranscribe(ctx context.Context, req backend.UploadRequest) (string, error)
	GenerateAIScript(ctx context.Context, req backend.AIScriptRequest) (backend.SubmitResponse, error)
	GenerateFinalVideo(ctx context.Context, req backend.FinalVideoRequest) (backend.SubmitResponse, error)
	Status(ctx context.Context, videoID string) (backend.StatusResponse, error)
	DownloadURL(videoID string) string
}

// ScriptEditor edits a script outside the TUI and reports back with a
// ScriptEditedMsg.
type ScriptEditor interface {
	Edit(script string) tea.Cmd
}
