package index

import (
	domainerr "archivist/internal/domain/errors"
	"errors"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Store is a queryable copy of the last ingestion snapshot.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".archivist/index.db"
	// ReadOnly opens an existing index with a shared lock; a missing file is
	// reported as a domainerr.MissingInputError instead of being created.
	ReadOnly bool
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if opt.ReadOnly {
		if _, err := os.Stat(opt.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, domainerr.MissingInputError{What: "index", Path: opt.Path}
		}
	} else if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout:  time.Second,
		ReadOnly: opt.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", opt.Path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
