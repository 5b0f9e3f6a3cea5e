package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// ExternalEditor edits scripts in the user's editor, suspending the TUI
// while it runs.
type ExternalEditor struct {
	// EditorCmd is the editor binary; $EDITOR, then vi, when empty.
	EditorCmd string
	// Dir holds the scratch file handed to the editor.
	Dir string
}

// Edit writes script to a scratch file, opens it and reads it back.
//
//nolint:gosec // subprocess launching
func (e *ExternalEditor) Edit(script string) tea.Cmd {
	path := filepath.Join(e.Dir, "ai_script.txt")

	//nolint:gosec // Script files need to be readable
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return emit(ScriptEditedMsg{Script: script, Err: fmt.Errorf("failed to write script for editing: %w", err)})
	}

	editor := e.EditorCmd
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	slog.Info("Opening script in editor", "editor", editor, "path", path)
	c := exec.CommandContext(context.Background(), editor, path)

	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			slog.Error("Editor closed with error", "error", err)
			return ScriptEditedMsg{Script: script, Err: fmt.Errorf("editor failed: %w", err)}
		}

		edited, err := os.ReadFile(path)
		if err != nil {
			return ScriptEditedMsg{Script: script, Err: fmt.Errorf("failed to read edited script: %w", err)}
		}

		return ScriptEditedMsg{Script: string(edited)}
	})
}
