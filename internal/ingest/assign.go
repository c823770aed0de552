package ingest

import (
	"archivist/internal/domain/issue"
	"sort"
	"time"
)

type datedSubject struct {
	subject issue.Subject
	used    bool
}

type datedRecord struct {
	idx int
	at  time.Time
}

// AssignSubjects overwrites record titles with authoritative subjects matched
// by nearest date and returns how many records were retitled.
//
// Records are visited oldest first. Each one takes the closest unused subject
// dated on or after it; only when no such subject is left does it look at
// subjects dated before it. A match farther away than tolerance is dropped.
// A subject is consumed by at most one record. This is a greedy pass, not a
// global minimum-cost matching.
func AssignSubjects(records []issue.Record, subjects []issue.Subject, tolerance time.Duration) int {
	pool := make([]datedSubject, 0, len(subjects))
	for _, s := range subjects {
		if s.Resolved() {
			pool = append(pool, datedSubject{subject: s})
		}
	}
	if len(pool) == 0 {
		return 0
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].subject.Time.Before(pool[j].subject.Time)
	})

	dated := make([]datedRecord, 0, len(records))
	for i, r := range records {
		if t, ok := r.Published(); ok {
			dated = append(dated, datedRecord{idx: i, at: t})
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		if dated[i].at.Equal(dated[j].at) {
			return records[dated[i].idx].Slug < records[dated[j].idx].Slug
		}
		return dated[i].at.Before(dated[j].at)
	})

	assigned := 0
	for _, d := range dated {
		best, diff := nearestUnused(pool, d.at)
		if best < 0 || diff > tolerance {
			continue
		}
		pool[best].used = true
		records[d.idx].Title = pool[best].subject.Subject
		assigned++
	}
	return assigned
}

// nearestUnused prefers candidates on or after at; past candidates are only
// considered when no future one is available. It returns -1 when the pool is
// exhausted.
func nearestUnused(pool []datedSubject, at time.Time) (int, time.Duration) {
	best, bestDiff := -1, time.Duration(0)
	for i := range pool {
		if pool[i].used || pool[i].subject.Time.Before(at) {
			continue
		}
		diff := pool[i].subject.Time.Sub(at)
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
		if diff == 0 {
			return best, bestDiff
		}
	}
	if best >= 0 {
		return best, bestDiff
	}

	for i := range pool {
		if pool[i].used || !pool[i].subject.Time.Before(at) {
			continue
		}
		diff := at.Sub(pool[i].subject.Time)
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best, bestDiff
}
