package normalize

import (
	"slices"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// FallbackConfidence caps the confidence reported by the dictionary path.
const FallbackConfidence = 0.3

// minFuzzyLength is the shortest token tried against the vocabulary by edit distance.
const minFuzzyLength = 6

// Dictionary is the deterministic substitution table of the fallback path.
type Dictionary struct {
	// Replacements swap a token for its canonical form (abbreviations, known typos).
	Replacements map[string]string
	// Expansions insert a companion term after a token (role acronyms).
	Expansions map[string]string
	// Vocabulary holds the known words a token may be corrected to by one edit.
	Vocabulary []string
}

// DefaultDictionary returns the built-in Danish substitution table.
func DefaultDictionary() Dictionary {
	d := Dictionary{
		Replacements: map[string]string{
			"kbh":        "københavn",
			"cph":        "københavn",
			"kobenhavn":  "københavn",
			"koebenhavn": "københavn",
			"københaven": "københavn",
			"arhus":      "aarhus",
			"ålborg":     "aalborg",
			"øk":         "økonomi",
			"regnsk":     "regnskab",
			"adm":        "administrerende",
			"dir":        "direktør",
			"controler":  "controller",
			"kontroller": "controller",
			"økonmichef": "økonomichef",
			"økonomicef": "økonomichef",
			"bogholer":   "bogholder",
			"konsulnet":  "konsulent",
			"deltids":    "deltid",
			"fuldtids":   "fuldtid",
		},
		Expansions: map[string]string{
			"cfo": "finansdirektør",
			"ceo": "administrerende",
			"coo": "driftsdirektør",
			"cto": "teknisk",
			"hr":  "personale",
		},
		Vocabulary: []string{
			"controller", "økonomichef", "regnskabschef", "finansdirektør", "økonomidirektør",
			"bogholder", "revisor", "konsulent", "direktør", "interim", "regnskab", "økonomi",
			"københavn", "aarhus", "odense", "aalborg", "esbjerg", "roskilde", "frederiksberg",
		},
	}
	// substitution targets are known words, so a second pass leaves them alone
	for _, v := range d.Replacements {
		d.Vocabulary = append(d.Vocabulary, v)
	}
	for _, v := range d.Expansions {
		d.Vocabulary = append(d.Vocabulary, v)
	}
	slices.Sort(d.Vocabulary)
	d.Vocabulary = slices.Compact(d.Vocabulary)
	return d
}

// WithVocabulary returns a copy with extra known words (catalog cities, companies, roles).
// Multi-word entries contribute each word.
func (d Dictionary) WithVocabulary(words []string) Dictionary {
	vocab := slices.Clone(d.Vocabulary)
	for _, w := range words {
		vocab = append(vocab, strings.Fields(strings.ToLower(w))...)
	}
	slices.Sort(vocab)
	d.Vocabulary = slices.Compact(vocab)
	return d
}

// Fallback normalizes raw with dictionary substitution only. It is a pure
// function of the dictionary: Fallback(Fallback(x).Query) == Fallback(x).Query.
func (d Dictionary) Fallback(raw string) Normalization {
	tokens := tokenize(raw)
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	out := make([]string, 0, len(tokens))
	var corrections []Correction
	for _, tok := range tokens {
		fixed := d.correct(tok)
		if fixed != tok {
			corrections = append(corrections, Correction{From: tok, To: fixed})
			present[fixed] = true
		}
		out = append(out, fixed)

		if exp, ok := d.Expansions[fixed]; ok && !present[exp] {
			out = append(out, exp)
			present[exp] = true
			corrections = append(corrections, Correction{From: fixed, To: fixed + " " + exp})
		}
	}

	return Normalization{
		Query:       strings.Join(out, " "),
		Corrections: corrections,
		Confidence:  FallbackConfidence,
		Source:      SourceFallback,
	}
}

func (d Dictionary) correct(tok string) string {
	if r, ok := d.Replacements[tok]; ok {
		return r
	}
	if len([]rune(tok)) < minFuzzyLength {
		return tok
	}
	if _, found := slices.BinarySearch(d.Vocabulary, tok); found {
		return tok
	}
	// exactly one vocabulary word within one edit, otherwise leave it
	match := ""
	for _, w := range d.Vocabulary {
		if edlib.LevenshteinDistance(tok, w) == 1 {
			if match != "" {
				return tok
			}
			match = w
		}
	}
	if match == "" {
		return tok
	}
	return match
}

// tokenize lower-cases and splits on whitespace, trimming punctuation around each token.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
