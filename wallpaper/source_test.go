package wallpaper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceDownloads(t *testing.T) {
	img, err := os.ReadFile(writePNG(t, t.TempDir(), "served.png"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "cache", "wind.png")
	src := NewSource(&Config{SourceType: SourceHTTP, SourceURL: srv.URL, ImagePath: dst, SourceTimeout: 5 * time.Second})

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dst, got)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, img, data)

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary download file left behind")
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "wind.png")
	src := &httpSource{URL: srv.URL, Dst: dst}

	_, err := src.Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
	assert.NoFileExists(t, dst)
}

func TestFileSource(t *testing.T) {
	src := NewSource(&Config{SourceType: SourceFile, ImagePath: "/shots/wind.png"})
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/shots/wind.png", got)
}
