package index

import (
	"path/filepath"
	"testing"
	"time"

	domainerr "archivist/internal/domain/errors"
	"archivist/internal/domain/issue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(slug, date string) issue.Record {
	r := issue.Record{Slug: slug, Title: "Title " + slug, ContentHTML: "<p>" + slug + "</p>"}
	if date != "" {
		r.SetPublished(date)
	}
	return r
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "nested", "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func listSlugs(t *testing.T, s *Store, opt ListOptions) []string {
	t.Helper()
	recs, err := s.List(opt)
	require.NoError(t, err)
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Slug
	}
	return out
}

func TestStore_RebuildAndList(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Rebuild([]issue.Record{
		record("old", "2019-05-01"),
		record("undated", ""),
		record("same-a", "2020-06-01"),
		record("new", "2021-01-01"),
		record("same-ab", "2020-06-01"),
	}, time.Now()))

	assert.Equal(t,
		[]string{"new", "same-ab", "same-a", "old", "undated"},
		listSlugs(t, s, ListOptions{}))
}

func TestStore_ListByYearAndPaging(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Rebuild([]issue.Record{
		record("a", "2020-01-01"),
		record("b", "2020-02-01"),
		record("c", "2020-03-01"),
		record("d", "2021-03-01"),
		record("u", ""),
	}, time.Now()))

	assert.Equal(t, []string{"c", "b", "a"}, listSlugs(t, s, ListOptions{Year: "2020"}))
	assert.Equal(t, []string{"b"}, listSlugs(t, s, ListOptions{Year: "2020", Page: 2, Size: 1}))
	assert.Equal(t, []string{"u"}, listSlugs(t, s, ListOptions{Year: issue.UndatedYear}))
	assert.Empty(t, listSlugs(t, s, ListOptions{Year: "1999"}))
	assert.Empty(t, listSlugs(t, s, ListOptions{Page: 3, Size: 5}))
}

func TestStore_Get(t *testing.T) {
	s := openTemp(t)
	want := record("weekly", "2021-03-04")
	want.Summary = "A summary."
	require.NoError(t, s.Rebuild([]issue.Record{want}, time.Now()))

	got, err := s.Get("weekly")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Years(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Rebuild([]issue.Record{
		record("a", "2019-01-01"),
		record("b", "2021-01-01"),
		record("c", "2021-02-01"),
		record("u", ""),
	}, time.Now()))

	years, err := s.Years()
	require.NoError(t, err)
	assert.Equal(t, []YearCount{
		{Year: "2021", Count: 2},
		{Year: "2019", Count: 1},
		{Year: issue.UndatedYear, Count: 1},
	}, years)
}

func TestStore_RebuildReplacesEverything(t *testing.T) {
	s := openTemp(t)
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, s.Rebuild([]issue.Record{record("gone", "2020-01-01")}, first))
	require.NoError(t, s.Rebuild([]issue.Record{record("kept", "2021-01-01")}, second))

	assert.Equal(t, []string{"kept"}, listSlugs(t, s, ListOptions{}))
	_, err := s.Get("gone")
	assert.ErrorIs(t, err, ErrNotFound)

	years, err := s.Years()
	require.NoError(t, err)
	assert.Equal(t, []YearCount{{Year: "2021", Count: 1}}, years)

	builtAt, err := s.BuiltAt()
	require.NoError(t, err)
	assert.True(t, second.Equal(builtAt))
}

func TestStore_EmptyIndex(t *testing.T) {
	s := openTemp(t)

	recs, err := s.List(ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)

	builtAt, err := s.BuiltAt()
	require.NoError(t, err)
	assert.True(t, builtAt.IsZero())
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{})
	assert.Error(t, err)
}

func TestDateSlugKey_RoundTrip(t *testing.T) {
	d := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2021-03-04_index", slugFromDateSlugKey(makeDateSlugKey(d, true, "2021-03-04_index")))
	assert.Equal(t, "", slugFromDateSlugKey([]byte{0x00}))
}

func TestOpen_ReadOnlyMissing(t *testing.T) {
	_, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "none.db"), ReadOnly: true})
	assert.ErrorIs(t, err, domainerr.ErrMissingInput)
}
