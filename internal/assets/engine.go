package assets

import (
	"archivist/internal/domain/config"
	"archivist/internal/ingest"
	"archivist/internal/logger"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads rawURL into destDir and returns the stored file name.
type Fetcher interface {
	Download(ctx context.Context, rawURL, destDir string) (string, error)
}

type Options struct {
	Root      string
	IssuesDir string
	// AssetDir is where images are written, one sub-directory per issue slug.
	AssetDir string
	// URLPrefix is the public path AssetDir is served under.
	URLPrefix string
	Now       func() time.Time
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Root:      cfg.Root,
		IssuesDir: cfg.Path(cfg.Ingest.IssuesDir),
		AssetDir:  cfg.Path(cfg.Images.AssetDir),
		URLPrefix: cfg.Images.URLPrefix,
	}
}

type Report struct {
	Files      int
	Updated    int
	Downloaded int
	CacheHits  int
	Failed     int
}

// Engine caches the remote images of every issue file and points the HTML at
// the cached copies. Files and downloads are handled strictly one at a time.
type Engine struct {
	opt     Options
	fetcher Fetcher
	log     logger.Logger
}

func NewEngine(opt Options, fetcher Fetcher, log logger.Logger) *Engine {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	opt.URLPrefix = strings.TrimSuffix(opt.URLPrefix, "/")
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{opt: opt, fetcher: fetcher, log: log}
}

// Run processes all issue files against m and returns the grown manifest.
// The manifest is returned even when err is non-nil so that progress made
// before the failure can be saved.
func (e *Engine) Run(ctx context.Context, m Manifest) (Manifest, Report, error) {
	m = m.Clone()
	var rep Report

	files, err := ingest.DiscoverIssues(e.opt.Root, e.opt.IssuesDir)
	if err != nil {
		return m, rep, err
	}

	for _, sf := range files {
		if err := ctx.Err(); err != nil {
			return m, rep, err
		}
		rep.Files++
		updated, err := e.processIssue(ctx, sf, m, &rep)
		if err != nil {
			return m, rep, fmt.Errorf("process %s: %w", sf.Path, err)
		}
		if updated {
			rep.Updated++
			e.log.Info("issue updated", logger.String("file", filepath.Base(sf.Path)))
		}
	}
	return m, rep, nil
}

func (e *Engine) processIssue(ctx context.Context, sf ingest.SourceFile, m Manifest, rep *Report) (bool, error) {
	info, err := os.Stat(sf.Path)
	if err != nil {
		return false, err
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return false, err
	}

	slug := sf.Slug()
	out, changed, err := RewriteHTML(string(raw), func(remote string) (string, error) {
		return e.ensureLocal(ctx, remote, slug, m, rep)
	})
	if err != nil || !changed {
		return false, err
	}
	if err := os.WriteFile(sf.Path, []byte(out), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// ensureLocal returns the local reference for remote, downloading it unless
// the manifest already points at a file that still exists. A failed download
// is logged and remote is returned unchanged.
func (e *Engine) ensureLocal(ctx context.Context, remote, slug string, m Manifest, rep *Report) (string, error) {
	if entry, ok := m[remote]; ok {
		if p, ok := e.diskPath(entry.LocalPath); ok {
			_, err := os.Stat(p)
			if err == nil {
				rep.CacheHits++
				return entry.LocalPath, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
	}

	name, err := e.fetcher.Download(ctx, remote, filepath.Join(e.opt.AssetDir, slug))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		rep.Failed++
		e.log.Warn("image download failed, keeping remote url",
			logger.String("url", remote),
			logger.String("issue", slug),
			logger.Error(err),
		)
		return remote, nil
	}

	local := path.Join("/", e.opt.URLPrefix, slug, name)
	m[remote] = Entry{LocalPath: local, FetchedAt: e.opt.Now().UTC()}
	rep.Downloaded++
	e.log.Debug("image cached", logger.String("url", remote), logger.String("path", local))
	return local, nil
}

// diskPath maps a manifest local path back to the file under AssetDir.
func (e *Engine) diskPath(localPath string) (string, bool) {
	rest, ok := strings.CutPrefix(localPath, e.opt.URLPrefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	return filepath.Join(e.opt.AssetDir, filepath.FromSlash(rest)), true
}
