package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	monthAbbrev   = regexp.MustCompile(`\b(sept|sep|jan|feb|mar|apr|jun|jul|aug|oct|nov|dec)\b`)
	monthDayYear  = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december) (\d{1,2})(?:st|nd|rd|th)?,? (\d{4})\b`)
	numericDate   = regexp.MustCompile(`(?:^|[^0-9])(\d{4})[-_/.](\d{1,2})[-_/.](\d{1,2})(?:[^0-9]|$)`)
	leadingPrefix = regexp.MustCompile(`^[0-9_]+`)
)

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var abbrevToMonth = map[string]string{
	"jan":  "january",
	"feb":  "february",
	"mar":  "march",
	"apr":  "april",
	"jun":  "june",
	"jul":  "july",
	"aug":  "august",
	"sep":  "september",
	"sept": "september",
	"oct":  "october",
	"nov":  "november",
	"dec":  "december",
}

// explicitLayouts are tried, in order, on values that come from markup
// (time[datetime], meta[name=date]) or from the subjects file.
var explicitLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"Monday, January 2, 2006",
}

// normalizePhrase prepares free text for month/day/year matching.
func normalizePhrase(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.ToLower(strings.TrimSpace(s))
	return monthAbbrev.ReplaceAllStringFunc(s, func(m string) string {
		return abbrevToMonth[m]
	})
}

// ParseDatePhrase looks for a calendar date inside free text such as a title,
// a heading or a slug and returns it as YYYY-MM-DD.
//
// "Sept 3, 2020", "september-03-2020" and "September 3rd 2020" all resolve
// to 2020-09-03. A numeric YYYY-MM-DD (any of - _ / . as separator) is
// accepted too.
func ParseDatePhrase(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	if m := monthDayYear.FindStringSubmatch(normalizePhrase(text)); m != nil {
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, monthNames[m[1]], day); ok {
			return d, true
		}
	}

	if m := numericDate.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 {
			if d, ok := calendarDate(year, time.Month(month), day); ok {
				return d, true
			}
		}
	}
	return "", false
}

// NormalizeDate turns an explicitly supplied date value into YYYY-MM-DD.
// The calendar date is kept as written; time zones are not converted.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range explicitLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	return ParseDatePhrase(raw)
}

// DateFromSlug strips a leading numeric/underscore prefix (e.g. "014_") and
// searches the remainder for a date; the untouched slug is tried last.
func DateFromSlug(slug string) (string, bool) {
	stripped := leadingPrefix.ReplaceAllString(slug, "")
	if d, ok := ParseDatePhrase(stripped); ok {
		return d, true
	}
	if stripped != slug {
		return ParseDatePhrase(slug)
	}
	return "", false
}

// FormatLongDate renders an ISO date as "Thursday, March 4, 2021" in UTC.
func FormatLongDate(iso string) (string, bool) {
	t, err := time.ParseInLocation(time.DateOnly, iso, time.UTC)
	if err != nil {
		return "", false
	}
	return t.Format("Monday, January 2, 2006"), true
}

func calendarDate(year int, month time.Month, day int) (string, bool) {
	if day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
