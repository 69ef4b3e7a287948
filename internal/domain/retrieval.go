package domain

// SemanticQuery is the input of a vector-similarity retrieval call.
type SemanticQuery struct {
	Embedding []float32
	Threshold float64
	Count     int
	MinScore  int
	// Location and Company are optional substring filters applied by the datastore.
	Location string
	Company  string
}

// TextQuery is the input of a lexical retrieval call.
type TextQuery struct {
	Text     string
	Count    int
	MinScore int
}

// HybridQuery is the input of a combined vector + lexical retrieval call.
type HybridQuery struct {
	Embedding []float32
	Text      string
	Threshold float64
	Count     int
	MinScore  int
}
