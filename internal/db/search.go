package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	// PreFilter is an FT query fragment applied before the KNN step ("" = all documents).
	PreFilter    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName string
	Query     string
	// TextField restricts matching to one TEXT field ("" = all TEXT fields).
	TextField string
	// MatchAny ORs the query terms; otherwise every term must match.
	MatchAny bool
	// PreFilter is ANDed with the text clause.
	PreFilter    string
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
