package watch

import (
	domainbuild "archivist/internal/domain/build"
	"archivist/internal/domain/config"
	"archivist/internal/ingest"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Inputs computes the fingerprint of everything an ingestion run reads.
func Inputs(cfg config.Config) (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint

	files, err := ingest.DiscoverIssues(cfg.Root, cfg.Path(cfg.Ingest.IssuesDir))
	if err != nil {
		return fp, err
	}
	h := sha256.New()
	for _, sf := range files {
		raw, err := os.ReadFile(sf.Path)
		if err != nil {
			return fp, err
		}
		h.Write([]byte(filepath.Base(sf.Path)))
		h.Write([]byte{0})
		h.Write([]byte(domainbuild.HashBytes(raw)))
	}
	fp.IssuesHash = hex.EncodeToString(h.Sum(nil))

	if p := cfg.Path(cfg.Ingest.SubjectsFile); p != "" {
		raw, err := os.ReadFile(p)
		switch {
		case err == nil:
			fp.SubjectsHash = domainbuild.HashBytes(raw)
		case !errors.Is(err, fs.ErrNotExist):
			return fp, err
		}
	}

	fp.ConfigHash = domainbuild.HashBytes([]byte(fmt.Sprintf("%+v", cfg.Ingest)))
	fp.ComputeInputHash()
	return fp, nil
}
