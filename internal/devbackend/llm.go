package devbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

const (
	geminiHost        = "generativelanguage.googleapis.com"
	defaultLLMTimeout = 60 * time.Second
	maxTokens         = 2000
	systemPrompt      = "You add timed visual and sound effects to video narration scripts."
)

// LLMRequest is one script-revision call.
type LLMRequest struct {
	Provider pipeline.Provider
	URL      string
	Method   string
	APIKey   string
	Prompt   string
}

// Generator produces an AI script from a prompt.
type Generator interface {
	Generate(ctx context.Context, req LLMRequest) (string, error)
}

// Dispatcher routes a request to the provider's SDK, or to a plain JSON
// request for Gemini and custom endpoints.
type Dispatcher struct {
	httpClient     *http.Client
	logger         *slog.Logger
	anthropicModel anthropic.Model
	openaiModel    openai.ChatModel
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLLMHTTPClient replaces the HTTP client used for every provider.
func WithLLMHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.httpClient = c }
}

// WithDispatcherLogger sets the dispatcher's logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		httpClient:     &http.Client{Timeout: defaultLLMTimeout},
		logger:         slog.Default(),
		anthropicModel: anthropic.ModelClaudeSonnet4_5_20250929,
		openaiModel:    openai.ChatModelGPT4o,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolveProvider returns req's provider, inferring it from the URL when the
// client sent none.
func ResolveProvider(provider pipeline.Provider, apiURL string) pipeline.Provider {
	if provider != "" {
		return provider
	}

	u, err := url.Parse(apiURL)
	if err != nil {
		return pipeline.ProviderCustom
	}
	switch {
	case strings.HasSuffix(u.Host, "anthropic.com"):
		return pipeline.ProviderClaude
	case strings.HasSuffix(u.Host, "openai.com"):
		return pipeline.ProviderOpenAI
	case u.Host == geminiHost:
		return pipeline.ProviderGemini
	default:
		return pipeline.ProviderCustom
	}
}

// Generate implements Generator.
func (d *Dispatcher) Generate(ctx context.Context, req LLMRequest) (string, error) {
	provider := ResolveProvider(req.Provider, req.URL)
	d.logger.Debug("dispatching llm request", "provider", provider, "url", redactKey(req.URL))

	var (
		text string
		err  error
	)
	switch provider {
	case pipeline.ProviderClaude:
		text, err = d.callClaude(ctx, req)
	case pipeline.ProviderOpenAI:
		text, err = d.callOpenAI(ctx, req)
	default:
		text, err = d.generic(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("llm request to %s failed: %w", provider, err)
	}

	return strings.TrimSpace(text), nil
}

func (d *Dispatcher) callClaude(ctx context.Context, req LLMRequest) (string, error) {
	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(req.APIKey),
		anthropicopt.WithBaseURL(baseURL(req.URL, "/v1/messages")),
		anthropicopt.WithHTTPClient(d.httpClient),
		anthropicopt.WithMaxRetries(0),
	)

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     d.anthropicModel,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			return tb.Text, nil
		}
	}

	return "", errors.New("empty response from Anthropic API")
}

func (d *Dispatcher) callOpenAI(ctx context.Context, req LLMRequest) (string, error) {
	client := openai.NewClient(
		openaiopt.WithAPIKey(req.APIKey),
		openaiopt.WithBaseURL(baseURL(req.URL, "/chat/completions")),
		openaiopt.WithHTTPClient(d.httpClient),
		openaiopt.WithMaxRetries(0),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: d.openaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(req.Prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}

// generic talks to Gemini (key in the query string) and custom endpoints
// (bearer token) with a plain JSON body.
func (d *Dispatcher) generic(ctx context.Context, req LLMRequest) (string, error) {
	target := req.URL
	gemini := req.Provider == pipeline.ProviderGemini || isGemini(target)

	var payload any
	if gemini {
		target = withGeminiKey(target, req.APIKey)
		payload = map[string]any{
			"contents": []any{
				map[string]any{"parts": []any{map[string]any{"text": req.Prompt}}},
			},
		}
	} else {
		payload = map[string]any{
			"prompt":      req.Prompt,
			"max_tokens":  maxTokens,
			"temperature": 0.7,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.APIKey != "" && !gemini && !strings.Contains(target, "key=") {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(raw))
	}

	return extractText(raw), nil
}

// extractText pulls the script out of a Gemini or custom response body,
// falling back to the raw body.
func extractText(raw []byte) string {
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Script  string `json:"script"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw)
	}

	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		return parsed.Candidates[0].Content.Parts[0].Text
	}
	if parsed.Script != "" {
		return parsed.Script
	}
	if parsed.Content != "" {
		return parsed.Content
	}
	return string(raw)
}

func isGemini(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Host == geminiHost
}

func withGeminiKey(rawURL, key string) string {
	if key == "" || strings.Contains(rawURL, "key=") {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "key=" + url.QueryEscape(key)
}

// baseURL strips the endpoint path so the SDK can append its own.
func baseURL(rawURL, endpoint string) string {
	return strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), endpoint) + "/"
}

func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "redacted")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func snippet(raw []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
