package assets

import (
	"html"
	"regexp"
	"strings"
)

var (
	srcAttr   = regexp.MustCompile(`(?i)src\s*=\s*(?:"([^"']+)"|'([^"']+)')`)
	remoteURL = regexp.MustCompile(`(?i)^https?://`)
)

// ResolveFunc returns the reference that should replace remote. Returning
// remote itself leaves the occurrence untouched. An error aborts the rewrite.
type ResolveFunc func(remote string) (string, error)

// IsRemote reports whether an entity-decoded src value is an absolute
// http(s) URL.
func IsRemote(value string) bool {
	return remoteURL.MatchString(value)
}

// RewriteHTML scans doc for single or double quoted src attributes and
// replaces every remote URL the resolver maps elsewhere. The document is not
// parsed; bytes outside rewritten attributes are copied unchanged, and so is
// every attribute whose value stays the same. changed reports whether any
// value was replaced.
func RewriteHTML(doc string, resolve ResolveFunc) (out string, changed bool, err error) {
	matches := srcAttr.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return doc, false, nil
	}

	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		quote, value := byte('"'), ""
		if m[2] >= 0 {
			value = doc[m[2]:m[3]]
		} else {
			quote, value = '\'', doc[m[4]:m[5]]
		}

		b.WriteString(doc[last:start])
		last = end

		decoded := html.UnescapeString(value)
		if !IsRemote(decoded) {
			b.WriteString(doc[start:end])
			continue
		}

		local, err := resolve(decoded)
		if err != nil {
			return doc, false, err
		}
		if local == decoded {
			b.WriteString(doc[start:end])
			continue
		}

		changed = true
		b.WriteString("src=")
		b.WriteByte(quote)
		b.WriteString(html.EscapeString(local))
		b.WriteByte(quote)
	}
	b.WriteString(doc[last:])

	if !changed {
		return doc, false, nil
	}
	return b.String(), true, nil
}
