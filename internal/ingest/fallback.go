package ingest

import (
	"archivist/internal/domain/issue"
	"github.com/PuerkitoBio/goquery"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const titleMaxRunes = 90

var sentence = regexp.MustCompile(`^(.*?[.!?])(?:\s|$)`)

var weekdays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// LooksAutoGenerated reports whether title is a placeholder worth replacing:
// empty, the slug itself, containing an underscore, starting with a digit or
// a bare weekday name.
func LooksAutoGenerated(title, slug string) bool {
	t := strings.TrimSpace(title)
	if t == "" || t == slug || strings.Contains(t, "_") {
		return true
	}
	if r, _ := utf8.DecodeRuneInString(t); unicode.IsDigit(r) {
		return true
	}
	_, weekday := weekdays[strings.ToLower(strings.TrimRight(t, ".,:;!"))]
	return weekday
}

// ApplyFallback replaces a placeholder title with, in order, the first
// sentence of the summary, the first h2 of the content, or the long-form
// publication date. Records without a summary get one from the content's
// first heading. It reports whether the title changed.
func ApplyFallback(rec *issue.Record) bool {
	headings := contentHeadings(rec.ContentHTML)
	changed := false

	if LooksAutoGenerated(rec.Title, rec.Slug) {
		if t, ok := fallbackTitle(rec, headings); ok {
			changed = t != rec.Title
			rec.Title = t
		}
	}

	if rec.Summary == "" {
		switch {
		case headings.h2 != "":
			rec.Summary = truncate(headings.h2, summaryMaxRunes)
		case headings.h1 != "":
			rec.Summary = truncate(headings.h1, summaryMaxRunes)
		}
	}
	return changed
}

func fallbackTitle(rec *issue.Record, headings contentHeading) (string, bool) {
	if s := firstSentence(rec.Summary); s != "" && !LooksAutoGenerated(s, rec.Slug) {
		return s, true
	}
	if h := truncate(headings.h2, titleMaxRunes); h != "" && !LooksAutoGenerated(h, rec.Slug) {
		return h, true
	}
	if rec.PublishedOn != "" {
		return FormatLongDate(rec.PublishedOn)
	}
	return "", false
}

func firstSentence(summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ""
	}
	if m := sentence.FindStringSubmatch(summary); m != nil {
		summary = strings.TrimSpace(m[1])
	}
	return truncate(summary, titleMaxRunes)
}

type contentHeading struct {
	h1 string
	h2 string
}

func contentHeadings(contentHTML string) contentHeading {
	if strings.TrimSpace(contentHTML) == "" {
		return contentHeading{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return contentHeading{}
	}
	return contentHeading{
		h1: collapse(doc.Find("h1").First().Text()),
		h2: collapse(doc.Find("h2").First().Text()),
	}
}
