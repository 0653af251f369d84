package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesExportsForDocumentsWithFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"filename":"a.pdf","fields":{"Name":"Jane"},"raw_text":"Jane Doe..."},
			{"filename":"b.pdf","fields":{},"raw_text":"..."}
		]`)
	}))
	defer srv.Close()

	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "exports")
	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("%PDF-1.4"), 0o644))
	}

	err := run(context.Background(), []string{filepath.Join(in, "a.pdf"), filepath.Join(in, "b.pdf")}, out, srv.URL, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "a.json"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "a.pdf", doc["filename"])

	_, err = os.Stat(filepath.Join(out, "b.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	in := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4"), 0o644))

	err := run(context.Background(), []string{in}, t.TempDir(), srv.URL, false)
	assert.EqualError(t, err, "extraction failed")
}

func TestRun_NoInput(t *testing.T) {
	assert.Error(t, run(context.Background(), nil, t.TempDir(), "", false))
}
