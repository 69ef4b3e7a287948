package retrieval

import (
	"context"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Provider is the datastore's retrieval contract. Implementations: pgsearch
// (Postgres SQL functions) and search (Redis/Valkey FT.SEARCH).
type Provider interface {
	SemanticSearch(ctx context.Context, q domain.SemanticQuery) ([]domain.Candidate, error)
	TextSearch(ctx context.Context, q domain.TextQuery) ([]domain.Candidate, error)
	HybridSearch(ctx context.Context, q domain.HybridQuery) ([]domain.Candidate, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
