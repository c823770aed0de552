package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultBaseName = "image"

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s: %s", e.URL, e.Status)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type DownloaderOptions struct {
	// Client defaults to a client with Timeout (zero = no timeout).
	Client     *http.Client
	Timeout    time.Duration
	UserAgent  string
	Retries    int
	RetryDelay time.Duration
}

// Downloader fetches remote images into a directory, picking a file name that
// does not clash with what is already there.
type Downloader struct {
	client     *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
}

func NewDownloader(opt DownloaderOptions) *Downloader {
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	retries := opt.Retries
	if retries < 0 {
		retries = 0
	}
	return &Downloader{
		client:     client,
		userAgent:  opt.UserAgent,
		retries:    retries,
		retryDelay: opt.RetryDelay,
	}
}

// Download stores rawURL under destDir and returns the chosen file name.
// Nothing is written when the fetch fails.
func (d *Downloader) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	body, contentType, err := d.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	stem, ext := splitName(baseNameFromURL(rawURL))
	if ext == "" {
		ext = extensionFromContentType(contentType)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	name, err := freeName(destDir, stem, ext)
	if err != nil {
		return "", err
	}
	// the existence check and this write are not atomic; runs are single-writer
	if err := os.WriteFile(filepath.Join(destDir, name), body, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(time.Duration(attempt) * d.retryDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, "", ctx.Err()
			case <-t.C:
			}
		}

		body, contentType, err := d.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, contentType, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
	}
	return nil, "", lastErr
}

func (d *Downloader) fetchOnce(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{URL: rawURL, Code: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// baseNameFromURL is the last path segment of rawURL with characters outside
// [A-Za-z0-9._-] replaced by '-'.
func baseNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultBaseName
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return defaultBaseName
	}
	return safeFileName(name)
}

func safeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}

func splitName(name string) (stem, ext string) {
	ext = path.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		stem = defaultBaseName
	}
	return stem, ext
}

// extensionFromContentType maps image/jpeg to .jpg, image/svg+xml to .svg
// and other image/<sub> types to .<sub>. Everything else becomes .img.
func extensionFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".img"
	}
	typ, sub, ok := strings.Cut(mediaType, "/")
	if !ok || typ != "image" || sub == "" {
		return ".img"
	}
	switch sub {
	case "jpeg":
		return ".jpg"
	case "svg+xml":
		return ".svg"
	}
	return "." + sub
}

// freeName returns stem+ext, or stem-N+ext for the first N not yet taken.
func freeName(dir, stem, ext string) (string, error) {
	name := stem + ext
	for n := 1; ; n++ {
		_, err := os.Stat(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}
