package pgsearch

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

const catalogSQL = `SELECT
	COALESCE(array_agg(DISTINCT location) FILTER (WHERE location <> ''), '{}'),
	COALESCE(array_agg(DISTINCT company) FILTER (WHERE company <> ''), '{}'),
	count(*)
FROM job_postings
WHERE relevance_score >= $1`

// Catalog aggregates the visible postings into a snapshot.
func (r *Repo) Catalog(ctx context.Context) (domain.CatalogSnapshot, error) {
	rows, err := r.db.Query(ctx, catalogSQL, domain.MinVisibleScore)
	if err != nil {
		return domain.CatalogSnapshot{}, fmt.Errorf("catalog: %w", err)
	}
	defer rows.Close()

	var (
		cities, companies []string
		count             int64
	)
	if rows.Next() {
		if err := rows.Scan(&cities, &companies, &count); err != nil {
			return domain.CatalogSnapshot{}, fmt.Errorf("scan catalog: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.CatalogSnapshot{}, fmt.Errorf("iterate catalog: %w", err)
	}

	slices.Sort(cities)
	slices.Sort(companies)
	return domain.CatalogSnapshot{
		Cities:       cities,
		Companies:    companies,
		PostingCount: int(count),
		ComputedAt:   time.Now().UTC(),
	}, nil
}
