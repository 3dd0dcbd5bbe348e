package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Tracking parameters that never change which article a link points to.
var trackingParamRe = regexp.MustCompile(`[?&](utm_[^=&#]*|source|fbclid|ref|igshid)=[^&#]*`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Stop words removed from titles before comparison, so "The Quick Fox"
// and "Quick Fox" index identically.
var titleStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true, "at": true,
	"to": true, "for": true, "with": true, "and": true, "but": true, "or": true,
}

// URL canonicalizes a link for deduplication: drops tracking query
// parameters, the fragment and a trailing slash. Idempotent.
func URL(raw string) string {
	u := trackingParamRe.ReplaceAllStringFunc(raw, func(m string) string {
		// Keep the separator so a following real parameter stays attached.
		if strings.HasPrefix(m, "?") {
			return "?"
		}
		return ""
	})
	// Collapse "?&x" / dangling "?" left behind by parameter removal.
	u = strings.Replace(u, "?&", "?", 1)
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "?")
	u = strings.TrimRight(u, "/")
	return u
}

// Title produces the comparison key for a headline: lowercase, no
// punctuation, single spaces, stop words removed. Never shown to users.
func Title(raw string) string {
	s := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = whitespaceRe.ReplaceAllString(b.String(), " ")
	s = strings.TrimSpace(s)

	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if titleStopWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
