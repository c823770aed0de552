package index

import (
	"archivist/internal/domain/issue"
	"encoding/json"
	"errors"
	bolt "go.etcd.io/bbolt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type ListOptions struct {
	// Year restricts the listing to one group; "Undated" selects undated issues.
	Year string
	Page int
	Size int
}

type YearCount struct {
	Year  string
	Count int
}

func (s *Store) Get(slug string) (issue.Record, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return issue.Record{}, ErrNotFound
	}
	var r issue.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIssues)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 500 {
		size = 500
	}
	return page, size
}

// List returns records in snapshot order: newest first, undated last.
func (s *Store) List(opt ListOptions) ([]issue.Record, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []issue.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		issuesB := tx.Bucket(bIssues)
		idx := tx.Bucket(bIdxDate)
		if y := strings.TrimSpace(opt.Year); y != "" {
			if yearB := tx.Bucket(bIdxYear); yearB != nil {
				idx = yearB.Bucket([]byte(y))
			} else {
				idx = nil
			}
		}
		if idx == nil || issuesB == nil {
			return nil
		}

		skip := (opt.Page - 1) * opt.Size
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromDateSlugKey(k)
			if slug == "" {
				continue
			}
			v := issuesB.Get([]byte(slug))
			if v == nil {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			var r issue.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			out = append(out, r)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

// Years lists the year groups with their sizes, newest first, Undated last.
func (s *Store) Years() ([]YearCount, error) {
	var out []YearCount
	err := s.db.View(func(tx *bolt.Tx) error {
		yearB := tx.Bucket(bIdxYear)
		if yearB == nil {
			return nil
		}
		return yearB.ForEachBucket(func(k []byte) error {
			sb := yearB.Bucket(k)
			out = append(out, YearCount{Year: string(k), Count: sb.Stats().KeyN})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		yi, errI := strconv.Atoi(out[i].Year)
		yj, errJ := strconv.Atoi(out[j].Year)
		switch {
		case errI == nil && errJ == nil:
			return yi > yj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// BuiltAt is the time of the last Rebuild, zero if the index was never built.
func (s *Store) BuiltAt() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return nil
		}
		v := b.Get(kBuiltAt)
		if v == nil {
			return nil
		}
		return t.UnmarshalText(v)
	})
	return t, err
}
