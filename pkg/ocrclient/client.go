// Package ocrclient talks to the remote OCR extraction service.
package ocrclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

const (
	// ExtractPath is the service endpoint receiving the uploads.
	ExtractPath = "/extract"
	// FilesField is the multipart field every file part is sent under.
	FilesField = "files"

	maxErrorBody = 4 << 10
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Config 定义客户端配置
type Config struct {
	BaseURL string
	// Timeout of zero means no client-side timeout.
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.Named("ocrclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract uploads all files in a single multipart POST and decodes the
// per-document results in the order the service returns them.
func (c *Client) Extract(ctx context.Context, files []models.SelectedFile) ([]models.ExtractionResult, error) {
	body, contentType, err := encodeFiles(files)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ExtractPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log := logger.FromContext(ctx, c.logger)
	log.Info("Sending extraction request",
		logger.String("url", req.URL.String()),
		logger.Int("files", len(files)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var results []models.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if results == nil {
		return nil, fmt.Errorf("failed to decode response: expected a JSON array")
	}
	for i := range results {
		if results[i].Fields == nil {
			results[i].Fields = map[string]string{}
		}
	}

	log.Info("Extraction request completed",
		logger.Int("documents", len(results)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func encodeFiles(files []models.SelectedFile) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, f := range files {
		part, err := w.CreateFormFile(FilesField, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form part for %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
