// Package constraint extracts role, location and company hints from free text.
package constraint

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// maxCompanyTokens bounds the capitalized token run taken as a company name.
const maxCompanyTokens = 4

// Extractor applies a Rules table to query text.
type Extractor struct {
	rules     Rules
	companyRe *regexp.Regexp
	places    map[string]bool
}

// NewExtractor compiles the rule table.
func NewExtractor(rules Rules) *Extractor {
	markers := make([]string, len(rules.CompanyMarkers))
	for i, m := range rules.CompanyMarkers {
		markers[i] = regexp.QuoteMeta(m)
	}
	// marker word, then a run of capitalized tokens
	pattern := `(?:^|\s)(?i:` + strings.Join(markers, "|") + `)\s+` +
		`(\p{Lu}[\p{L}\d&./\-]*(?:\s+\p{Lu}[\p{L}\d&./\-]*){0,` +
		strconv.Itoa(maxCompanyTokens-1) + `})`

	places := make(map[string]bool)
	for _, p := range rules.Places {
		for _, v := range p.Variants {
			places[v] = true
		}
	}
	return &Extractor{
		rules:     rules,
		companyRe: regexp.MustCompile(pattern),
		places:    places,
	}
}

// Extract derives a ConstraintSet from text. ExcludeCompanies is never text-derived.
func (e *Extractor) Extract(text string) domain.ConstraintSet {
	haystack := " " + normalize(text) + " "

	var cs domain.ConstraintSet
	for _, role := range e.rules.Roles {
		if strings.Contains(haystack, role) {
			cs.Roles = append(cs.Roles, role)
		}
	}

	loose := e.hasAreaQualifier(haystack)
	for _, p := range e.rules.Places {
		if !containsAnyWord(haystack, p.Variants) {
			continue
		}
		if loose {
			cs.Locations = append(cs.Locations, p.Variants...)
			cs.Locations = append(cs.Locations, p.Neighbours...)
		} else {
			cs.StrictLocations = append(cs.StrictLocations, p.Variants...)
		}
	}

	cs.IncludeCompanies = e.companies(text)

	cs.Roles = domain.NormalizeSet(cs.Roles)
	cs.Locations = domain.NormalizeSet(cs.Locations)
	cs.StrictLocations = domain.NormalizeSet(cs.StrictLocations)
	cs.IncludeCompanies = domain.NormalizeSet(cs.IncludeCompanies)
	return cs
}

func (e *Extractor) hasAreaQualifier(haystack string) bool {
	return containsAnyWord(haystack, e.rules.AreaQualifiers)
}

// companies runs the marker pattern on the original casing. Trailing place
// names are cut from the run ("hos Vestas Aarhus" is vestas).
func (e *Extractor) companies(text string) []string {
	var out []string
	for _, m := range e.companyRe.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(strings.ToLower(strings.TrimRight(m[1], ".-/")))
		for len(words) > 0 && e.places[normalize(words[len(words)-1])] {
			words = words[:len(words)-1]
		}
		if len(words) == 0 {
			continue
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}

// containsAnyWord matches whole words or phrases inside a space-padded haystack.
func containsAnyWord(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, " "+t+" ") {
			return true
		}
	}
	return false
}

// normalize lower-cases and collapses everything but letters and digits to single spaces.
func normalize(s string) string {
	f := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(f, " ")
}
