package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"go.uber.org/zap"
)

var (
	ErrNotDXF = errors.New("please select a DXF file")
	// ErrNoResults is returned by Results when the server holds no session yet.
	ErrNoResults = errors.New("no results available")
)

const DefaultTimeout = 5 * time.Second

// Response is what the server returns for uploads and result fetches.
type Response struct {
	SessionID string            `json:"session_id"`
	Data      *types.IOResult   `json:"data"`
	Stats     types.ResultStats `json:"stats"`
}

// APIError carries the error body of a non-2xx response.
type APIError struct {
	Status int
	Body   types.ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func New(cfg config.ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// ValidateFilename rejects anything without the .dxf extension.
func ValidateFilename(name string) error {
	if !types.IsDXFFilename(filepath.Base(name)) {
		return fmt.Errorf("%w: %s", ErrNotDXF, filepath.Base(name))
	}
	return nil
}

// Upload sends the drawing at path to the server. The extension is checked
// before the file is opened.
func (c *Client) Upload(ctx context.Context, path string) (*Response, error) {
	if err := ValidateFilename(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawing: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("Uploading drawing", zap.String("path", path), zap.String("url", req.URL.String()))

	return c.do(ctx, req)
}

// Results fetches the latest session.
func (c *Client) Results(ctx context.Context) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/results", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.do(ctx, req)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, ErrNoResults
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, req *http.Request) (*Response, error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The caller may have given up while the body was in flight.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{Status: httpResp.StatusCode}
		var errResp types.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Body = errResp.Error
		}
		return nil, apiErr
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
