package build

import (
	"archivist/internal/domain/config"
	"archivist/internal/domain/issue"
	"archivist/internal/index"
	"archivist/internal/ingest"
	"archivist/internal/logger"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Builder runs one ingestion: it writes the JSON snapshot consumed by the
// templating layer and refreshes the bbolt index.
type Builder struct {
	Cfg config.Config
	Log logger.Logger
	// Now stamps the index; defaults to time.Now.
	Now func() time.Time
	// Index, when set, is rebuilt in place instead of opening Cfg.Index.Path.
	Index *index.Store
}

type Result struct {
	Issues   int
	Groups   int
	Stats    ingest.Stats
	Output   string
	Warnings []ingest.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := b.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	res, err := ingest.Ingest(ctx, ingest.OptionsFromConfig(b.Cfg))
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, w := range res.Warnings {
		log.Warn(w.Msg, logger.String("path", w.Path))
	}

	out := b.Cfg.Path(b.Cfg.Ingest.Output)
	if err := WriteIndex(out, res.Index); err != nil {
		return nil, fmt.Errorf("write index json: %w", err)
	}

	st := b.Index
	if st == nil {
		st, err = index.Open(index.OpenOptions{Path: b.Cfg.Path(b.Cfg.Index.Path)})
		if err != nil {
			return nil, fmt.Errorf("failed to open index: %w", err)
		}
		defer st.Close()
	}

	if err := st.Rebuild(res.Index.Issues, now()); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	log.Info("ingest complete",
		logger.Int("issues", len(res.Index.Issues)),
		logger.Int("groups", len(res.Index.Groups)),
		logger.Int("subjects_assigned", res.Stats.Assigned),
		logger.Int("fallback_titles", res.Stats.FallbackTitles),
		logger.Int("undated", res.Stats.Undated),
		logger.String("output", out),
	)

	return &Result{
		Issues:   len(res.Index.Issues),
		Groups:   len(res.Index.Groups),
		Stats:    res.Stats,
		Output:   out,
		Warnings: res.Warnings,
	}, nil
}

// WriteIndex overwrites path with the indented JSON snapshot.
func WriteIndex(path string, idx issue.Index) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(full string, data []byte) error {
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), full)
}
