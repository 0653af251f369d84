package ocrclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{BaseURL: srv.URL + "/"}, logger.NewTestLogger(), WithHTTPClient(srv.Client()))
}

func TestExtract_SendsAllFilesInOneRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/extract", r.URL.Path)

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		headers := r.MultipartForm.File["files"]
		if !assert.Len(t, headers, 2) {
			return
		}
		assert.Equal(t, "a.pdf", headers[0].Filename)
		assert.Equal(t, "b.pdf", headers[1].Filename)

		f, err := headers[1].Open()
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-b", string(content))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"filename":"a.pdf","fields":{"Name":"Jane"},"raw_text":"Jane Doe..."},
			{"filename":"b.pdf","fields":{},"raw_text":"..."}
		]`)
	}))
	defer srv.Close()

	results, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{
		{Name: "a.pdf", Content: []byte("%PDF-a")},
		{Name: "b.pdf", Content: []byte("%PDF-b")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, results, 2)
	assert.Equal(t, models.ExtractionResult{
		Filename: "a.pdf",
		Fields:   map[string]string{"Name": "Jane"},
		RawText:  "Jane Doe...",
	}, results[0])
	assert.Empty(t, results[1].Fields)
}

func TestExtract_NormalisesMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"filename":"c.pdf","fields":null}]`)
	}))
	defer srv.Close()

	results, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{{Name: "c.pdf"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].Fields)
	assert.Equal(t, "", results[0].RawText)
}

func TestExtract_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{{Name: "a.pdf"}})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, se.Body, "model not loaded")
}

func TestExtract_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"detail":"oops"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{{Name: "a.pdf"}})
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestExtract_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{{Name: "a.pdf"}})
	assert.ErrorContains(t, err, "failed to send request")
}

func TestExtract_NullBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	results, err := newTestClient(srv).Extract(context.Background(), []models.SelectedFile{{Name: "a.pdf"}})
	assert.ErrorContains(t, err, "expected a JSON array")
	assert.Nil(t, results)
}
