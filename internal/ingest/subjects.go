package ingest

import (
	"archivist/internal/domain/issue"
	"encoding/json"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type subjectRow struct {
	Date    string `json:"date" yaml:"date"`
	Subject string `json:"subject" yaml:"subject"`
}

// LoadSubjects reads the authoritative {date, subject} list. A missing file
// means there is no authoritative data and yields an empty slice.
// .yaml/.yml files are decoded as YAML, anything else as JSON.
func LoadSubjects(path string) ([]issue.Subject, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read subjects: %w", err)
	}

	var rows []subjectRow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &rows)
	default:
		err = json.Unmarshal(raw, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("decode subjects %s: %w", path, err)
	}
	return parseSubjects(rows), nil
}

// parseSubjects normalizes raw rows. Rows without a subject are dropped;
// rows whose date cannot be resolved are kept with a zero Time.
func parseSubjects(rows []subjectRow) []issue.Subject {
	out := make([]issue.Subject, 0, len(rows))
	for _, r := range rows {
		subject := strings.TrimSpace(r.Subject)
		if subject == "" {
			continue
		}
		s := issue.Subject{RawDate: r.Date, Subject: subject}
		if d, ok := NormalizeDate(r.Date); ok {
			s.ISODate = d
			s.Time, _ = time.ParseInLocation(time.DateOnly, d, time.UTC)
		}
		out = append(out, s)
	}
	return out
}
