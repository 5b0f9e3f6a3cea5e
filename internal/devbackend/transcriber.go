package devbackend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

// Transcriber turns an uploaded media file into the original script.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, fields map[string]string) (string, error)
}

// WhisperTranscriber transcribes with the OpenAI Whisper API.
type WhisperTranscriber struct {
	apiKey string
	opts   []openaiopt.RequestOption
}

// NewWhisperTranscriber creates a Whisper client. Extra options are passed
// to the SDK (base URL, HTTP client).
func NewWhisperTranscriber(apiKey string, opts ...openaiopt.RequestOption) *WhisperTranscriber {
	return &WhisperTranscriber{apiKey: apiKey, opts: opts}
}

// Transcribe sends the file to Whisper. A "language" upload field is passed
// through as the language hint.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, mediaPath string, fields map[string]string) (string, error) {
	if w.apiKey == "" {
		return "", errors.New("API key required: set OPENAI_API_KEY on the server")
	}

	//nolint:gosec // Path comes from the upload directory
	f, err := os.Open(mediaPath)
	if err != nil {
		return "", fmt.Errorf("failed to open media: %w", err)
	}
	defer f.Close()

	client := openai.NewClient(append([]openaiopt.RequestOption{openaiopt.WithAPIKey(w.apiKey)}, w.opts...)...)

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModelWhisper1,
	}
	if lang := strings.TrimSpace(fields["language"]); lang != "" {
		params.Language = openai.String(lang)
	}

	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription via Whisper API: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// PlaceholderTranscriber is used when no transcription service is
// configured. Its script names the file so the rest of the workflow has
// something to work with.
type PlaceholderTranscriber struct{}

// Transcribe implements Transcriber.
func (PlaceholderTranscriber) Transcribe(_ context.Context, mediaPath string, _ map[string]string) (string, error) {
	info, err := os.Stat(mediaPath)
	if err != nil {
		return "", fmt.Errorf("failed to read media: %w", err)
	}

	lines := []string{
		fmt.Sprintf("[00:00:00.000 - 00:00:04.000] Placeholder transcript for %s (%s).",
			filepath.Base(mediaPath), humanize.Bytes(uint64(info.Size()))),
		"[00:00:04.000 - 00:00:08.000] Set OPENAI_API_KEY on the server to transcribe the audio.",
	}

	return strings.Join(lines, "\n"), nil
}
