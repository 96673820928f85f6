// Package transcribe converts audio files to text via a Whisper-compatible
// HTTP service, exposed to the model as the transcribe_audio tool.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nooriai/noori/logging"
	"github.com/nooriai/noori/tool"
)

// Result is the service's transcription response.
type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Options configures a Transcriber.
type Options struct {
	// HTTPClient overrides the default client (60s timeout).
	HTTPClient *http.Client

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Transcriber calls a Whisper-compatible /transcribe endpoint with a
// multipart audio upload.
type Transcriber struct {
	apiBase string
	client  *http.Client
	logger  logging.Logger
}

// New creates a transcriber for the given API base URL.
func New(apiBase string, optFns ...func(o *Options)) *Transcriber {
	opts := Options{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Transcriber{apiBase: apiBase, client: opts.HTTPClient, logger: opts.Logger}
}

// TranscribeFile uploads the audio file at path and returns its transcript.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcribe: open audio file: %w", err)
	}
	defer f.Close()
	return t.Transcribe(ctx, filepath.Base(path), f)
}

// Transcribe uploads audio content under the given filename.
func (t *Transcriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("transcribe: create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("transcribe: copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("transcribe: close multipart writer: %w", err)
	}

	url := t.apiBase + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("transcribe: service returned %d: %s", resp.StatusCode, raw)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("transcribe: decode response: %w", err)
	}
	t.logger.Debug("transcription completed", "file", filename, "duration", time.Since(start))
	return &result, nil
}

// Tool exposes the transcriber as the transcribe_audio capability.
func Tool(t *Transcriber) tool.Tool {
	return tool.NewFunctionTool(
		"transcribe_audio",
		"Transcribes a local audio file to text.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Filesystem path of the audio file.",
				},
			},
			"required": []string{"path"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			path, _ := args["path"].(string)
			result, err := t.TranscribeFile(ctx, path)
			if err != nil {
				return nil, err
			}
			return result.Text, nil
		},
	)
}
