package ingest

import (
	"testing"

	"archivist/internal/domain/issue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(records []issue.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Slug
	}
	return out
}

func TestSortRecords(t *testing.T) {
	records := []issue.Record{
		{Slug: "undated-a"},
		dated("old", "2019-05-01"),
		{Slug: "undated-c"},
		dated("new", "2021-01-01"),
		dated("same-a", "2020-06-01"),
		dated("same-b", "2020-06-01"),
	}
	SortRecords(records)

	assert.Equal(t, []string{"new", "same-b", "same-a", "old", "undated-c", "undated-a"}, slugs(records))
}

func TestGroupByYear(t *testing.T) {
	records := []issue.Record{
		dated("a", "2021-02-01"),
		dated("b", "2019-12-31"),
		{Slug: "u"},
		dated("c", "2021-01-01"),
		dated("d", "2020-07-07"),
	}
	SortRecords(records)
	groups := GroupByYear(records)

	require.Len(t, groups, 4)
	assert.Equal(t, "2021", groups[0].Year)
	assert.Equal(t, []string{"a", "c"}, slugs(groups[0].Items))
	assert.Equal(t, "2020", groups[1].Year)
	assert.Equal(t, "2019", groups[2].Year)
	assert.Equal(t, issue.UndatedYear, groups[3].Year)
	assert.Equal(t, []string{"u"}, slugs(groups[3].Items))

	for _, g := range groups {
		for _, r := range g.Items {
			if r.PublishedOn == "" {
				assert.Equal(t, issue.UndatedYear, g.Year)
				continue
			}
			assert.Equal(t, r.PublishedOn[:4], g.Year)
			assert.Equal(t, r.PublishedOn[:4], r.Year)
		}
	}
}

func TestGroupByYear_NumericOrder(t *testing.T) {
	records := []issue.Record{
		{Slug: "u"},
		dated("y999", "0999-01-01"),
		dated("y2000", "2000-01-01"),
	}
	groups := GroupByYear(records)

	years := make([]string, len(groups))
	for i, g := range groups {
		years[i] = g.Year
	}
	assert.Equal(t, []string{"2000", "0999", issue.UndatedYear}, years)
}

func TestGroupByYear_Empty(t *testing.T) {
	assert.Empty(t, GroupByYear(nil))
}
