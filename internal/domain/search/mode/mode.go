package mode

// Mode is the retrieval strategy.
type Mode string

// Retrieval strategies exposed by the datastore.
const (
	// Semantic runs vector similarity over the posting embeddings.
	Semantic Mode = "semantic"
	// Text runs lexical search.
	Text Mode = "text"
	// Hybrid combines vector similarity and lexical search in one call.
	Hybrid Mode = "hybrid"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Semantic || m == Text || m == Hybrid
}

// IsVector reports whether the strategy scores by vector similarity.
func (m Mode) IsVector() bool {
	return m == Semantic || m == Hybrid
}
