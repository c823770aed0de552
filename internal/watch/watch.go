package watch

import (
	"archivist/internal/domain/build"
	"archivist/internal/domain/config"
	"archivist/internal/logger"
	"context"
	"errors"
	"github.com/fsnotify/fsnotify"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher re-runs Rebuild whenever an issue file or the subjects file changes.
type Watcher struct {
	Cfg      config.Config
	Log      logger.Logger
	Rebuild  func(ctx context.Context) error
	Debounce time.Duration

	last build.Fingerprint
}

// Run performs one rebuild immediately, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Log == nil {
		w.Log = logger.NewNop()
	}
	if w.Debounce <= 0 {
		w.Debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	issuesDir := w.Cfg.Path(w.Cfg.Ingest.IssuesDir)
	if err := fw.Add(issuesDir); err != nil {
		return err
	}
	// the parent directory catches editors that replace the file by rename
	if subjects := w.Cfg.Path(w.Cfg.Ingest.SubjectsFile); subjects != "" {
		dir := filepath.Dir(subjects)
		if _, err := os.Stat(dir); err == nil {
			if err := fw.Add(dir); err != nil {
				return err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := w.rebuildIfChanged(ctx); err != nil {
		return err
	}
	w.Log.Info("watching for changes", logger.String("issues_dir", issuesDir))
	return w.loop(ctx, fw)
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) error {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && w.relevant(ev.Name) {
				debounce.Reset(w.Debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn("watcher error", logger.Error(err))
		case <-debounce.C:
			if err := w.rebuildIfChanged(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.Log.Error("rebuild failed", logger.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	if filepath.Clean(name) == filepath.Clean(w.Cfg.Path(w.Cfg.Ingest.SubjectsFile)) {
		return true
	}
	return filepath.Dir(filepath.Clean(name)) == filepath.Clean(w.Cfg.Path(w.Cfg.Ingest.IssuesDir)) &&
		strings.EqualFold(filepath.Ext(name), ".html")
}

func (w *Watcher) rebuildIfChanged(ctx context.Context) error {
	fp, err := Inputs(w.Cfg)
	if err != nil {
		return err
	}
	if fp.Equal(w.last) {
		w.Log.Debug("inputs unchanged, skipping rebuild")
		return nil
	}
	if err := w.Rebuild(ctx); err != nil {
		return err
	}
	w.last = fp
	return nil
}
