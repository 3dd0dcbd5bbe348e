package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// MaxLengthDelta is the cheap pre-filter: two normalized titles whose
// lengths differ by more than this many characters are never compared.
const MaxLengthDelta = 15

// Ratio returns the character-level sequence similarity of a and b in
// [0,1], 1.0 for identical strings. It is the longest-matching-blocks
// ratio (2*M/T) and is symmetric.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Comparable reports whether two normalized titles pass the length
// pre-filter and are worth scoring.
func Comparable(a, b string) bool {
	d := len(a) - len(b)
	if d < 0 {
		d = -d
	}
	return d <= MaxLengthDelta
}
