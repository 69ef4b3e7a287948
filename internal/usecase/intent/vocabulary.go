package intent

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/usecase/constraint"
)

// jobTerms are job-type nouns and "more of the same" requests. Any of them
// means the message asks for a new retrieval.
var jobTerms = []string{
	"deltid", "fuldtid", "freelance", "remote", "hjemmearbejde", "vikariat", "barselsvikariat",
	"praktik", "studiejob", "elev", "trainee", "senior", "junior", "fast stilling",
	"flere", "lignende", "andre job", "nye job", "nyere", "søg", "find",
}

// Vocabulary is the heuristic term set. Matching is on whole words or phrases.
type Vocabulary struct {
	terms []string
}

// DefaultVocabulary combines role words, place names and job-type nouns.
func DefaultVocabulary() Vocabulary {
	rules := constraint.DefaultRules()
	terms := append([]string(nil), rules.Roles...)
	for _, p := range rules.Places {
		terms = append(terms, p.Variants...)
		terms = append(terms, p.Neighbours...)
	}
	terms = append(terms, jobTerms...)
	return Vocabulary{terms: domain.NormalizeSet(terms)}
}

// WithCatalog adds catalog cities and companies.
func (v Vocabulary) WithCatalog(snap domain.CatalogSnapshot) Vocabulary {
	if snap.IsZero() {
		return v
	}
	terms := append([]string(nil), v.terms...)
	terms = append(terms, snap.Cities...)
	terms = append(terms, snap.Companies...)
	return Vocabulary{terms: domain.NormalizeSet(terms)}
}

// Match returns the first vocabulary term found in text.
func (v Vocabulary) Match(text string) (string, bool) {
	haystack := " " + words(text) + " "
	for _, t := range v.terms {
		if strings.Contains(haystack, " "+words(t)+" ") {
			return t, true
		}
	}
	return "", false
}

func words(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
