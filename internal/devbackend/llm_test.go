package devbackend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alkime/scriptcut/internal/devbackend"
	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Claude(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(raw), `"the prompt"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
			"content": [{"type": "text", "text": "  [00:00:00.000 - 00:00:01.000] {SFX_DING}\n"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	t.Cleanup(ts.Close)

	d := devbackend.NewDispatcher(devbackend.WithLLMHTTPClient(ts.Client()))
	got, err := d.Generate(context.Background(), devbackend.LLMRequest{
		Provider: pipeline.ProviderClaude,
		URL:      ts.URL + "/v1/messages",
		APIKey:   "sk-ant",
		Prompt:   "the prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "[00:00:00.000 - 00:00:01.000] {SFX_DING}", got)
}

func TestDispatcher_OpenAI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-oai", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "openai script"}}]
		}`))
	}))
	t.Cleanup(ts.Close)

	d := devbackend.NewDispatcher(devbackend.WithLLMHTTPClient(ts.Client()))
	got, err := d.Generate(context.Background(), devbackend.LLMRequest{
		Provider: pipeline.ProviderOpenAI,
		URL:      ts.URL + "/v1/chat/completions",
		APIKey:   "sk-oai",
		Prompt:   "p",
	})

	require.NoError(t, err)
	assert.Equal(t, "openai script", got)
}

func TestDispatcher_Gemini(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Contents, 1) {
			assert.Equal(t, "gemini prompt", body.Contents[0].Parts[0].Text)
		}

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"gemini script"}]}}]}`))
	}))
	t.Cleanup(ts.Close)

	d := devbackend.NewDispatcher(devbackend.WithLLMHTTPClient(ts.Client()))
	got, err := d.Generate(context.Background(), devbackend.LLMRequest{
		Provider: pipeline.ProviderGemini,
		URL:      ts.URL + "/v1beta/models/gemini:generateContent",
		APIKey:   "g-key",
		Prompt:   "gemini prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "gemini script", got)
}

func TestDispatcher_Custom(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer c-key", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "custom prompt", body["prompt"])
		assert.InDelta(t, 2000, body["max_tokens"], 0)

		_, _ = w.Write([]byte(`{"script":"custom script"}`))
	}))
	t.Cleanup(ts.Close)

	d := devbackend.NewDispatcher(devbackend.WithLLMHTTPClient(ts.Client()))
	got, err := d.Generate(context.Background(), devbackend.LLMRequest{
		Provider: pipeline.ProviderCustom,
		URL:      ts.URL + "/generate",
		Method:   "put",
		APIKey:   "c-key",
		Prompt:   "custom prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "custom script", got)
}

func TestDispatcher_CustomErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(ts.Close)

	d := devbackend.NewDispatcher(devbackend.WithLLMHTTPClient(ts.Client()))
	_, err := d.Generate(context.Background(), devbackend.LLMRequest{URL: ts.URL, Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom")
	assert.Contains(t, err.Error(), "unexpected status 429: quota exceeded")
}

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		provider pipeline.Provider
		url      string
		want     pipeline.Provider
	}{
		{provider: pipeline.ProviderGemini, url: "https://api.openai.com/v1/chat/completions", want: pipeline.ProviderGemini},
		{url: "https://api.openai.com/v1/chat/completions", want: pipeline.ProviderOpenAI},
		{url: "https://api.anthropic.com/v1/messages", want: pipeline.ProviderClaude},
		{url: pipeline.ProviderGemini.DefaultURL(), want: pipeline.ProviderGemini},
		{url: "http://localhost:11434/api/generate", want: pipeline.ProviderCustom},
		{url: "::not a url", want: pipeline.ProviderCustom},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, devbackend.ResolveProvider(tt.provider, tt.url))
		})
	}
}
