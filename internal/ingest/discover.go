package ingest

import (
	domainerr "archivist/internal/domain/errors"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type SourceFile struct {
	Path string
	// SourcePath is Path relative to the project root, slash separated.
	SourcePath string
}

func (sf SourceFile) Slug() string {
	base := filepath.Base(sf.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DiscoverIssues lists the .html files directly inside dir, sorted by name.
// A missing directory is reported as a domainerr.MissingInputError.
func DiscoverIssues(root, dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domainerr.MissingInputError{What: "issues directory", Path: dir}
		}
		return nil, fmt.Errorf("read issues directory: %w", err)
	}

	var out []SourceFile
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		out = append(out, SourceFile{Path: p, SourcePath: relativePath(root, p)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func relativePath(root, p string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))
}
