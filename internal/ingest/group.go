package ingest

import (
	"archivist/internal/domain/issue"
	"sort"
	"strconv"
)

// SortRecords orders records newest first. Undated records come after all
// dated ones; ties are broken by slug, descending.
func SortRecords(records []issue.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.PublishedOn != "" && b.PublishedOn != "":
			if a.PublishedOn != b.PublishedOn {
				return a.PublishedOn > b.PublishedOn
			}
		case a.PublishedOn != "":
			return true
		case b.PublishedOn != "":
			return false
		}
		return a.Slug > b.Slug
	})
}

// GroupByYear buckets already sorted records by year. Groups are ordered by
// numeric year, descending, with the Undated bucket last. Item order inside a
// group follows the input order.
func GroupByYear(records []issue.Record) []issue.Group {
	byYear := make(map[string][]issue.Record)
	var keys []string
	for _, r := range records {
		k := r.GroupKey()
		if _, ok := byYear[k]; !ok {
			keys = append(keys, k)
		}
		byYear[k] = append(byYear[k], r)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		yi, errI := yearNumber(keys[i])
		yj, errJ := yearNumber(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return yi > yj
		case errI == nil:
			return true
		default:
			return false
		}
	})

	groups := make([]issue.Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, issue.Group{Year: k, Items: byYear[k]})
	}
	return groups
}

func yearNumber(key string) (int, error) {
	if key == issue.UndatedYear {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(key)
}
