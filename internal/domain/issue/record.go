package issue

import (
	"strings"
	"time"
)

// UndatedYear is the group key for records without a publication date.
const UndatedYear = "Undated"

// Record is one normalized issue. Its JSON shape is the contract read by the
// templating layer.
type Record struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	ContentHTML string `json:"content_html"`
	PublishedOn string `json:"published_on,omitempty"`
	Year        string `json:"year,omitempty"`
	SourcePath  string `json:"source_path"`
}

// Published parses PublishedOn as a UTC date. ok is false when the record is
// undated or the value is not a calendar date.
func (r Record) Published() (time.Time, bool) {
	if r.PublishedOn == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(time.DateOnly, r.PublishedOn, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GroupKey is the year bucket the record belongs to.
func (r Record) GroupKey() string {
	if r.Year == "" {
		return UndatedYear
	}
	return r.Year
}

// SetPublished stores date and keeps Year consistent with it.
func (r *Record) SetPublished(date string) {
	r.PublishedOn = strings.TrimSpace(date)
	if len(r.PublishedOn) >= 4 {
		r.Year = r.PublishedOn[:4]
	} else {
		r.Year = ""
	}
}

type Group struct {
	Year  string   `json:"year"`
	Items []Record `json:"items"`
}

// Index is the full snapshot written on every ingestion run.
type Index struct {
	Issues []Record `json:"issues"`
	Groups []Group  `json:"groups"`
}

// Subject is an authoritative title keyed by date. A zero Time means the raw
// date could not be resolved.
type Subject struct {
	RawDate string
	ISODate string
	Time    time.Time
	Subject string
}

func (s Subject) Resolved() bool {
	return !s.Time.IsZero()
}
