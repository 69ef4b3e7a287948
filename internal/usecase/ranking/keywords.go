package ranking

import (
	"strings"
	"unicode"
)

const (
	minKeywordLength = 3
	// stemLength truncates keywords to catch Danish inflection (controllere, regnskabschefen).
	stemLength = 5
)

var stopwords = map[string]bool{
	"og": true, "med": true, "for": true, "til": true, "den": true, "det": true,
	"der": true, "som": true, "hos": true, "ved": true, "jeg": true, "mig": true,
	"mere": true, "dem": true, "job": true, "jobs": true, "stilling": true,
	"stillinger": true, "søger": true, "efter": true, "eller": true, "fra": true,
	"har": true, "kan": true, "vil": true, "gerne": true, "nogle": true,
	"noget": true, "alle": true, "omkring": true, "omegn": true,
	"the": true, "and": true, "with": true, "in": true,
}

type keyword struct {
	full string
	stem string // empty when the keyword is already short
}

// keywords derives the lower-cased, duplicate-free query keywords.
func keywords(query string) []keyword {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	var out []keyword
	for _, f := range fields {
		runes := []rune(f)
		if len(runes) < minKeywordLength || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		k := keyword{full: f}
		if len(runes) > stemLength {
			k.stem = string(runes[:stemLength])
		}
		out = append(out, k)
	}
	return out
}

// keywordHits counts keyword occurrences in haystack. The stem is only tried
// when the full keyword is absent, so no occurrence is counted twice.
func keywordHits(haystack string, kws []keyword) int {
	hits := 0
	for _, k := range kws {
		n := strings.Count(haystack, k.full)
		if n == 0 && k.stem != "" {
			n = strings.Count(haystack, k.stem)
		}
		hits += n
	}
	return hits
}
