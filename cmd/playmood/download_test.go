package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPlays(t *testing.T) {
	all, err := selectPlays("", true)
	require.NoError(t, err)
	assert.Len(t, all, len(plays))

	one, err := selectPlays("Hamlet", false)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "hamlet", one[0].Name)

	_, err = selectPlays("", false)
	assert.Error(t, err)

	_, err = selectPlays("cats", false)
	assert.ErrorContains(t, err, "unknown play")
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.xml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<PLAY><TITLE>Hamlet</TITLE></PLAY>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "hamlet.xml")

	err := downloadFile(context.Background(), server.Client(), server.URL+"/hamlet.xml", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<PLAY>")

	missing := filepath.Join(dir, "missing.xml")
	err = downloadFile(context.Background(), server.Client(), server.URL+"/missing.xml", missing)
	assert.ErrorContains(t, err, "HTTP 404")
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}
