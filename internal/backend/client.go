// Package backend is the HTTP client for the media-processing backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/scriptcut/pkg/collections"
)

const (
	uploadPath     = "/upload_and_transcribe"
	aiScriptPath   = "/generate_ai_script"
	finalVideoPath = "/generate_final_video"
	statusPath     = "/status_api/"
	downloadPath   = "/download_video/"

	// maxErrorBody bounds how much of a failed response is read.
	maxErrorBody = 64 << 10
)

// Client talks to one backend instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the backend at baseURL. No timeout is set on
// the default HTTP client; long-running work is observed through polling.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// UploadAndTranscribe uploads the media file and returns the job identity.
func (c *Client) UploadAndTranscribe(ctx context.Context, req UploadRequest) (string, error) {
	const op = "upload and transcribe"

	file, err := os.Open(req.FilePath)
	if err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("open media file: %w", err)}
	}
	defer file.Close()

	body, contentType := multipartBody(file, filepath.Base(req.FilePath), req.Fields)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, body)
	if err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", contentType)

	var resp UploadResponse
	if err := c.do(httpReq, op, &resp); err != nil {
		return "", err
	}
	if resp.VideoID == "" {
		return "", &TransportError{Op: op, Err: errors.New("response carried no video_id")}
	}

	return resp.VideoID, nil
}

// GenerateAIScript starts AI script generation for the job.
func (c *Client) GenerateAIScript(ctx context.Context, req AIScriptRequest) (SubmitResponse, error) {
	var resp SubmitResponse
	err := c.postJSON(ctx, "generate ai script", aiScriptPath, req, &resp)
	return resp, err
}

// GenerateFinalVideo starts effects application and final rendering.
func (c *Client) GenerateFinalVideo(ctx context.Context, req FinalVideoRequest) (SubmitResponse, error) {
	var resp SubmitResponse
	err := c.postJSON(ctx, "generate final video", finalVideoPath, req, &resp)
	return resp, err
}

// Status fetches the current status of a job. Any non-2xx response or
// undecodable body is a TransportError: the status endpoint has no error
// contract of its own.
func (c *Client) Status(ctx context.Context, videoID string) (StatusResponse, error) {
	const op = "fetch status"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+statusPath+url.PathEscape(videoID), nil)
	if err != nil {
		return StatusResponse{}, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	var resp StatusResponse
	if err := c.do(httpReq, op, &resp); err != nil {
		if reqErr, ok := AsRequestError(err); ok {
			return StatusResponse{}, &TransportError{Op: op, Err: reqErr}
		}
		return StatusResponse{}, err
	}

	return resp, nil
}

// DownloadURL is the link target of the final artifact. It is never fetched
// by the client.
func (c *Client) DownloadURL(videoID string) string {
	return c.baseURL + downloadPath + url.PathEscape(videoID)
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, op, out)
}

func (c *Client) do(httpReq *http.Request, op string, out any) error {
	c.logger.Debug("backend request", "op", op, "method", httpReq.Method, "url", httpReq.URL.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("http request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		var eb errorBody
		_ = json.Unmarshal(raw, &eb)

		c.logger.Debug("backend request rejected",
			"op", op,
			"status", resp.StatusCode,
			"body", string(raw),
		)

		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: eb.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

// multipartBody streams the file and fields as multipart/form-data.
func multipartBody(file io.Reader, filename string, fields map[string]string) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, file, filename, fields))
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, file io.Reader, filename string, fields map[string]string) error {
	for _, k := range collections.SortedKeys(fields) {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	part, err := mw.CreateFormFile("videoFile", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy media file: %w", err)
	}

	return mw.Close()
}
