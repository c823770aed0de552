package ingest

import (
	"archivist/internal/domain/config"
	"archivist/internal/domain/issue"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

type Warning struct {
	Path string
	Msg  string
}

type Options struct {
	Root             string
	IssuesDir        string
	SubjectsFile     string
	SubjectTolerance time.Duration
}

// OptionsFromConfig resolves the ingest paths of cfg against its root.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Root:             cfg.Root,
		IssuesDir:        cfg.Path(cfg.Ingest.IssuesDir),
		SubjectsFile:     cfg.Path(cfg.Ingest.SubjectsFile),
		SubjectTolerance: cfg.Ingest.SubjectTolerance,
	}
}

type Stats struct {
	Files          int
	Subjects       int
	Assigned       int
	FallbackTitles int
	Undated        int
}

type Result struct {
	Index    issue.Index
	Stats    Stats
	Warnings []Warning
}

// Ingest builds one record per issue file, applies authoritative subjects and
// title fallbacks, and returns the sorted, year-grouped snapshot. Files are
// processed one at a time.
func Ingest(ctx context.Context, opt Options) (*Result, error) {
	files, err := DiscoverIssues(opt.Root, opt.IssuesDir)
	if err != nil {
		return nil, err
	}
	subjects, err := LoadSubjects(opt.SubjectsFile)
	if err != nil {
		return nil, err
	}
	tolerance := opt.SubjectTolerance
	if tolerance == 0 {
		tolerance = config.DefaultSubjectTolerance
	}

	res := &Result{}
	res.Stats.Files = len(files)
	res.Stats.Subjects = len(subjects)

	records := make([]issue.Record, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, sf := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(sf.Path)
		if err != nil {
			return nil, fmt.Errorf("read issue %s: %w", sf.Path, err)
		}
		rec := BuildRecord(raw, sf)

		if _, dup := seen[rec.Slug]; dup {
			unique := uniqueSlug(rec.Slug, seen)
			res.Warnings = append(res.Warnings, Warning{
				Path: sf.Path,
				Msg:  "duplicate slug " + rec.Slug + ", renamed to " + unique,
			})
			if rec.Title == rec.Slug {
				rec.Title = unique
			}
			rec.Slug = unique
		}
		seen[rec.Slug] = struct{}{}

		if rec.PublishedOn == "" {
			res.Warnings = append(res.Warnings, Warning{Path: sf.Path, Msg: "no publication date found"})
		}
		records = append(records, rec)
	}

	res.Stats.Assigned = AssignSubjects(records, subjects, tolerance)

	for i := range records {
		if ApplyFallback(&records[i]) {
			res.Stats.FallbackTitles++
		}
		if strings.TrimSpace(records[i].Title) == "" {
			records[i].Title = records[i].Slug
		}
		if records[i].PublishedOn == "" {
			res.Stats.Undated++
		}
	}

	SortRecords(records)
	res.Index = issue.Index{
		Issues: records,
		Groups: GroupByYear(records),
	}
	return res, nil
}

func uniqueSlug(slug string, seen map[string]struct{}) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if _, ok := seen[candidate]; !ok {
			return candidate
		}
	}
}
