// Package normalize expands abbreviations and fixes misspellings in a search query.
package normalize

// Source names the path that produced a Normalization.
type Source string

// Normalization sources.
const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Correction is one substitution applied to the query.
type Correction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Normalization is the cleaned retrieval query. Confidence is in [0, 1].
type Normalization struct {
	Query       string       `json:"normalized_query"`
	Corrections []Correction `json:"corrections"`
	Confidence  float64      `json:"confidence"`
	Source      Source       `json:"source"`
}
