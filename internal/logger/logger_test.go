package logger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/scriptcut/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	log, closeFn, err := logger.SetupFile(dir, "scriptcut.log", slog.LevelInfo)
	require.NoError(t, err)

	log.Info("stage submitted", "stage", "upload")
	log.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "scriptcut.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "stage submitted")
	assert.Contains(t, string(data), "stage=upload")
	assert.NotContains(t, string(data), "hidden")
}
