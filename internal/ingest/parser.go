package ingest

import (
	"archivist/internal/domain/issue"
	"bytes"
	"github.com/PuerkitoBio/goquery"
	"strings"
	"unicode/utf8"
)

const (
	summaryMaxRunes = 200
	ellipsis        = "…"
)

// BuildRecord turns one issue file into a record. Missing pieces degrade to
// fallbacks; it never fails.
func BuildRecord(raw []byte, sf SourceFile) issue.Record {
	slug := sf.Slug()
	rec := issue.Record{
		Slug:        slug,
		Title:       slug,
		ContentHTML: string(raw),
		SourcePath:  sf.SourcePath,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		if d, ok := DateFromSlug(slug); ok {
			rec.SetPublished(d)
		}
		return rec
	}

	title := collapse(doc.Find("title").First().Text())
	heading := collapse(doc.Find("h1").First().Text())

	switch {
	case title != "":
		rec.Title = title
	case heading != "":
		rec.Title = heading
	}

	rec.Summary = extractSummary(doc)

	if body := doc.Find("body").First(); body.Length() > 0 {
		if inner, err := body.Html(); err == nil {
			rec.ContentHTML = inner
		}
	}

	if d, ok := extractPublishedOn(doc, title, heading, slug); ok {
		rec.SetPublished(d)
	}
	return rec
}

func extractSummary(doc *goquery.Document) string {
	p := doc.Find("p").First()
	if p.Length() == 0 {
		return ""
	}
	return truncate(collapse(p.Text()), summaryMaxRunes)
}

func extractPublishedOn(doc *goquery.Document, title, heading, slug string) (string, bool) {
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if d, ok := NormalizeDate(v); ok {
			return d, true
		}
	}
	if v, ok := doc.Find(`meta[name="date"]`).First().Attr("content"); ok {
		if d, ok := NormalizeDate(v); ok {
			return d, true
		}
	}
	if d, ok := ParseDatePhrase(title); ok {
		return d, true
	}
	if d, ok := ParseDatePhrase(heading); ok {
		return d, true
	}
	return DateFromSlug(slug)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate keeps the first limit-3 runes of an over-long s and appends an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + ellipsis
}
