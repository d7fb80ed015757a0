package match

import "strings"

// Trailing organizational suffixes stripped during normalization so that
// "Google Inc." and "Google" compare as the same company.
var orgSuffixes = map[string]struct{}{
	"inc":         {},
	"inc.":        {},
	"llc":         {},
	"llc.":        {},
	"corp":        {},
	"corp.":       {},
	"corporation": {},
	"co":          {},
	"co.":         {},
	"company":     {},
	"ltd":         {},
	"ltd.":        {},
	"limited":     {},
	"gmbh":        {},
	"plc":         {},
}

// Normalize canonicalizes free text for comparison: whitespace runs collapse
// to a single space, everything is lowercased and trailing organizational
// suffixes are stripped. Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for len(words) > 1 {
		if _, ok := orgSuffixes[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
