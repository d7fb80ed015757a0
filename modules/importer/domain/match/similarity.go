package match

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity returns a normalized edit-distance similarity in [0, 1] between
// two strings. Both inputs are normalized first, so the comparison is
// case-insensitive and suffix-insensitive. Two empty strings are identical;
// an empty string against a non-empty one is maximally dissimilar.
func Similarity(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
