// Package pgsearch is the Postgres retrieval provider. The similarity and
// lexical primitives are SQL functions owned by the database; this package
// only calls them and maps rows to candidates.
package pgsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

const postingColumns = `id::text, external_id::text, title, company, location, region,
	publication_date, relevance_score, description`

const (
	semanticSQL = `SELECT ` + postingColumns + `, similarity
	FROM semantic_search_postings($1, $2, $3, $4, $5, $6)`
	textSQL = `SELECT ` + postingColumns + `
	FROM text_search_postings($1, $2, $3)`
	hybridSQL = `SELECT ` + postingColumns + `, similarity
	FROM hybrid_search_postings($1, $2, $3, $4, $5)`
)

// querier is the consumer interface for SQL calls (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements the retrieval provider contract on top of Postgres + pgvector.
type Repo struct {
	db querier
}

// New creates a Postgres retrieval provider.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// SemanticSearch calls semantic_search_postings.
func (r *Repo) SemanticSearch(ctx context.Context, q domain.SemanticQuery) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, semanticSQL,
		pgvector.NewVector(q.Embedding),
		q.Threshold,
		q.Count,
		q.MinScore,
		nullable(q.Location),
		nullable(q.Company),
	)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return collect(rows, mode.Semantic, true)
}

// TextSearch calls text_search_postings.
func (r *Repo) TextSearch(ctx context.Context, q domain.TextQuery) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, textSQL, q.Text, q.Count, q.MinScore)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return collect(rows, mode.Text, false)
}

// HybridSearch calls hybrid_search_postings.
func (r *Repo) HybridSearch(ctx context.Context, q domain.HybridQuery) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, hybridSQL,
		pgvector.NewVector(q.Embedding),
		q.Text,
		q.Threshold,
		q.Count,
		q.MinScore,
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return collect(rows, mode.Hybrid, true)
}

// collect scans posting rows. Rows with an out-of-range relevance score are dropped.
func collect(rows pgx.Rows, source mode.Mode, withSimilarity bool) ([]domain.Candidate, error) {
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var (
			p           domain.JobPosting
			region      *string
			description *string
			published   *time.Time
			similarity  float64
		)
		dest := []any{
			&p.ID, &p.ExternalID, &p.Title, &p.Company, &p.Location, &region,
			&published, &p.RelevanceScore, &description,
		}
		if withSimilarity {
			dest = append(dest, &similarity)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		if !domain.ValidRelevanceScore(p.RelevanceScore) {
			continue
		}
		if region != nil {
			p.Region = *region
		}
		if description != nil {
			p.Description = *description
		}
		if published != nil {
			p.PublicationDate = *published
		}

		c := domain.NewCandidate(p, source)
		if withSimilarity {
			c = c.WithSimilarity(min(1, max(0, similarity)))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postings: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
