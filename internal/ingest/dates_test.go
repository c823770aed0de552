package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDatePhrase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"abbreviated with comma", "Sept 3, 2020", "2020-09-03", true},
		{"hyphenated slug", "september-03-2020", "2020-09-03", true},
		{"underscored slug", "september_03_2020", "2020-09-03", true},
		{"ordinal suffix", "Newsletter for Jan 5th, 2021", "2021-01-05", true},
		{"non-breaking space", "Dec\u00a025 2019", "2019-12-25", true},
		{"full month mixed case", "MARCH 4, 2021", "2021-03-04", true},
		{"three letter abbreviation", "mar 4 2021", "2021-03-04", true},
		{"numeric iso in title", "2021-03-04 Index", "2021-03-04", true},
		{"numeric with underscores", "notes_2019_11_02", "2019-11-02", true},
		{"impossible day", "February 30, 2021", "", false},
		{"abbreviation inside a word", "marching 4 2021", "", false},
		{"no date", "Weekly roundup", "", false},
		{"empty", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDatePhrase(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDatePhrase_SeparatorAndAbbreviationInsensitive(t *testing.T) {
	inputs := []string{
		"Sept 3, 2020",
		"sep 3 2020",
		"september-03-2020",
		"September_3rd_2020",
		"september 03, 2020",
	}
	for _, in := range inputs {
		got, ok := ParseDatePhrase(in)
		assert.True(t, ok, in)
		assert.Equal(t, "2020-09-03", got, in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2020-09-03", "2020-09-03", true},
		{"2020-09-03T10:00:00Z", "2020-09-03", true},
		{"2020-09-03T23:30:00-05:00", "2020-09-03", true},
		{"2021-03-04 12:30", "2021-03-04", true},
		{"2021/03/04", "2021-03-04", true},
		{"September 3, 2020", "2020-09-03", true},
		{"Sept 3, 2020", "2020-09-03", true},
		{" March 4, 2021 ", "2021-03-04", true},
		{"soon", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDateFromSlug(t *testing.T) {
	tests := []struct {
		slug string
		want string
		ok   bool
	}{
		{"014_september-03-2020", "2020-09-03", true},
		{"2021-03-04_index", "2021-03-04", true},
		{"oct-12-2018", "2018-10-12", true},
		{"about", "", false},
	}
	for _, tt := range tests {
		got, ok := DateFromSlug(tt.slug)
		assert.Equal(t, tt.ok, ok, tt.slug)
		assert.Equal(t, tt.want, got, tt.slug)
	}
}

func TestFormatLongDate(t *testing.T) {
	got, ok := FormatLongDate("2021-03-04")
	assert.True(t, ok)
	assert.Equal(t, "Thursday, March 4, 2021", got)

	_, ok = FormatLongDate("not a date")
	assert.False(t, ok)
}
