package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageServer(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloader_UsesURLBaseName(t *testing.T) {
	srv := imageServer(t, "image/png", []byte("png-bytes"))
	dir := filepath.Join(t.TempDir(), "issue")

	name, err := NewDownloader(DownloaderOptions{}).Download(context.Background(), srv.URL+"/img/photo.png?size=large", dir)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestDownloader_ExtensionFromContentType(t *testing.T) {
	srv := imageServer(t, "image/jpeg; charset=binary", []byte("jpg"))
	dir := t.TempDir()

	name, err := NewDownloader(DownloaderOptions{}).Download(context.Background(), srv.URL+"/render/12345", dir)
	require.NoError(t, err)
	assert.Equal(t, "12345.jpg", name)
}

func TestDownloader_AvoidsCollisions(t *testing.T) {
	srv := imageServer(t, "image/png", []byte("new"))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("old"), 0o644))

	d := NewDownloader(DownloaderOptions{})
	name, err := d.Download(context.Background(), srv.URL+"/image.png", dir)
	require.NoError(t, err)
	assert.Equal(t, "image-1.png", name)

	name, err = d.Download(context.Background(), srv.URL+"/image.png", dir)
	require.NoError(t, err)
	assert.Equal(t, "image-2.png", name)

	old, err := os.ReadFile(filepath.Join(dir, "image.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestDownloader_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	dir := filepath.Join(t.TempDir(), "issue")

	_, err := NewDownloader(DownloaderOptions{Retries: 3}).Download(context.Background(), srv.URL+"/missing.png", dir)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
}

func TestDownloader_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write([]byte("gif"))
	}))
	defer srv.Close()

	d := NewDownloader(DownloaderOptions{Retries: 2, RetryDelay: 1})
	name, err := d.Download(context.Background(), srv.URL+"/anim", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "anim.gif", name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownloader_SetsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.UserAgent()
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	_, err := NewDownloader(DownloaderOptions{UserAgent: "archivist-test"}).Download(context.Background(), srv.URL+"/a.png", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "archivist-test", ua)
}

func TestExtensionFromContentType(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":    ".jpg",
		"image/png":     ".png",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
		"text/html":     ".img",
		"":              ".img",
		"application/x": ".img",
		"IMAGE/GIF":     ".gif",
	}
	for in, want := range tests {
		assert.Equal(t, want, extensionFromContentType(in), in)
	}
}

func TestBaseNameFromURL(t *testing.T) {
	assert.Equal(t, "photo.png", baseNameFromURL("https://x.test/a/photo.png"))
	assert.Equal(t, "my-photo-1-.png", baseNameFromURL("https://x.test/my%20photo(1).png"))
	assert.Equal(t, "image", baseNameFromURL("https://x.test/"))
	assert.Equal(t, "image", baseNameFromURL("https://x.test"))
}
