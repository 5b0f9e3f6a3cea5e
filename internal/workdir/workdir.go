// Package workdir manages the scriptcut client's working directory, which
// holds its log file and scratch files for external editing.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// LogFile is the TUI log file name.
	LogFile = "scriptcut.log"
	// EnvOverride replaces the default root when set.
	EnvOverride = "SCRIPTCUT_HOME"
)

// Root returns the base directory for all working files:
//
//	$SCRIPTCUT_HOME, or $XDG_STATE_HOME/scriptcut, or $HOME/.local/state/scriptcut
func Root() (string, error) {
	if dir := os.Getenv(EnvOverride); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "scriptcut"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "scriptcut"), nil
}

// SessionPath returns the directory for one client session's scratch files.
func SessionPath(name string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "sessions", name), nil
}

// Prep ensures that the session directory for name exists and returns it.
func Prep(name string) (string, error) {
	dir, err := SessionPath(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create working directory %s: %w", dir, err)
	}

	return dir, nil
}

// SessionName picks the session directory name.
// Priority: explicit name > media file base name > today's date.
func SessionName(explicit, mediaPath string) string {
	if name := sanitize(explicit); name != "" {
		return name
	}

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	if mediaPath != "" {
		if name := sanitize(base); name != "" && name != "." {
			return name
		}
	}

	return time.Now().Format(time.DateOnly)
}

// sanitize makes name safe for use as a directory name.
// Replaces characters that are invalid in file paths with hyphens.
func sanitize(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
		" ", "-",
	)

	return strings.Trim(replacer.Replace(name), " -")
}
