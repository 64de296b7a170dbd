package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return New(config.ClientConfig{BaseURL: url, Timeout: 2 * time.Second}, zap.NewNop())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, ValidateFilename("panel.dxf"))
	assert.NoError(t, ValidateFilename("/tmp/dir.x/panel.dxf"))
	assert.ErrorIs(t, ValidateFilename("drawing.txt"), ErrNotDXF)
	assert.ErrorIs(t, ValidateFilename("panel.DXF"), ErrNotDXF)
	assert.ErrorIs(t, ValidateFilename("panel.dxf.bak"), ErrNotDXF)
}

func TestUploadRejectsNonDXFWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	path := writeFile(t, "drawing.txt", "0\nEOF\n")
	_, err := newTestClient(srv.URL).Upload(context.Background(), path)

	assert.ErrorIs(t, err, ErrNotDXF)
	assert.Zero(t, calls.Load())
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		assert.Equal(t, "panel.dxf", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"session_id": "abc",
			"data": types.IOResult{
				Devices:    []types.Device{{Position: "1.2", Subtype: "io", ControllerNumber: 1}},
				Channels:   []types.ChannelAssignment{},
				SourceFile: header.Filename,
			},
			"stats": types.ResultStats{TotalComponents: 1},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Upload(context.Background(), writeFile(t, "panel.dxf", "0\nEOF\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.SessionID)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "panel.dxf", resp.Data.SourceFile)
	assert.Len(t, resp.Data.Devices, 1)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(types.NewErrorResponse(types.CodeUploadFailed, "Failed to process drawing", nil))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), writeFile(t, "panel.dxf", "0\nEOF\n"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to process drawing", apiErr.Body.Message)
}

func TestResultsNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Results(context.Background())
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestResultsCancelledContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"session_id":"late"}`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := newTestClient(srv.URL).Results(ctx)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(config.ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
	_, err := c.Results(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
