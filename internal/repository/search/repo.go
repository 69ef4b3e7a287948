// Package search is the Redis/Valkey retrieval provider. Postings are hashes
// indexed by an FT index that the embedding job maintains.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/jobscout/internal/db"
	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// Hash fields of a stored posting.
const (
	fieldExternalID  = "external_id"
	fieldTitle       = "title"
	fieldCompany     = "company"
	fieldLocation    = "location"
	fieldRegion      = "region"
	fieldPublished   = "publication_date"
	fieldRelevance   = "relevance_score"
	fieldDescription = "description"
)

var returnFields = []string{
	fieldExternalID, fieldTitle, fieldCompany, fieldLocation, fieldRegion,
	fieldPublished, fieldRelevance, fieldDescription,
}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the retrieval provider contract over FT.SEARCH.
type Repo struct {
	store     store
	index     string
	keyPrefix string
}

// New creates a search repository. An empty index falls back to domain.PostingIndex.
func New(s store, index string) *Repo {
	if index == "" {
		index = domain.PostingIndex
	}
	return &Repo{store: s, index: index, keyPrefix: domain.PostingKeyPrefix}
}

// SemanticSearch runs KNN with a relevance pre-filter. Location and company
// are applied as case-insensitive substring filters after the KNN step.
func (r *Repo) SemanticSearch(ctx context.Context, q domain.SemanticQuery) ([]domain.Candidate, error) {
	out, err := r.knn(ctx, q.Embedding, q.Threshold, q.Count, q.MinScore, mode.Semantic)
	if err != nil {
		return nil, err
	}
	return filterSubstring(out, q.Location, q.Company), nil
}

// TextSearch runs BM25. Valkey reports db.ErrTextSearchUnsupported.
func (r *Repo) TextSearch(ctx context.Context, q domain.TextQuery) ([]domain.Candidate, error) {
	return r.bm25(ctx, q.Text, q.Count, q.MinScore, mode.Text)
}

// HybridSearch fuses KNN and BM25 via Reciprocal Rank Fusion. On backends
// without text search the KNN list is returned alone.
func (r *Repo) HybridSearch(ctx context.Context, q domain.HybridQuery) ([]domain.Candidate, error) {
	knn, err := r.knn(ctx, q.Embedding, q.Threshold, q.Count, q.MinScore, mode.Hybrid)
	if err != nil {
		return nil, err
	}

	text, err := r.bm25(ctx, q.Text, q.Count, q.MinScore, mode.Hybrid)
	if err != nil {
		if errors.Is(err, db.ErrTextSearchUnsupported) {
			return knn, nil
		}
		return nil, err
	}

	return fuseRRF(knn, text, q.Count), nil
}

func (r *Repo) knn(
	ctx context.Context, vector []float32, threshold float64, count, minScore int, source mode.Mode,
) ([]domain.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		PreFilter:    relevanceFilter(minScore),
		Vector:       vector,
		K:            count,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.index, err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Score < threshold {
			continue
		}
		p, ok := r.parsePosting(e)
		if !ok {
			continue
		}
		out = append(out, domain.NewCandidate(p, source).WithSimilarity(e.Score))
	}
	return out, nil
}

func (r *Repo) bm25(ctx context.Context, text string, count, minScore int, source mode.Mode) ([]domain.Candidate, error) {
	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    r.index,
		Query:        text,
		MatchAny:     true,
		PreFilter:    relevanceFilter(minScore),
		TopK:         count,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search bm25 %s: %w", r.index, err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		p, ok := r.parsePosting(e)
		if !ok {
			continue
		}
		out = append(out, domain.NewCandidate(p, source))
	}
	return out, nil
}

func relevanceFilter(minScore int) string {
	minScore = max(minScore, domain.MinRelevanceScore)
	return fmt.Sprintf("@%s:[%d %d]", fieldRelevance, minScore, domain.MaxRelevanceScore)
}

// parsePosting maps hash fields to a posting. Entries with a missing or
// out-of-range relevance score are rejected.
func (r *Repo) parsePosting(e db.SearchEntry) (domain.JobPosting, bool) {
	score, err := strconv.Atoi(e.Fields[fieldRelevance])
	if err != nil || !domain.ValidRelevanceScore(score) {
		return domain.JobPosting{}, false
	}
	return domain.JobPosting{
		ID:              strings.TrimPrefix(e.Key, r.keyPrefix),
		ExternalID:      e.Fields[fieldExternalID],
		Title:           e.Fields[fieldTitle],
		Company:         e.Fields[fieldCompany],
		Location:        e.Fields[fieldLocation],
		Region:          e.Fields[fieldRegion],
		PublicationDate: parseDate(e.Fields[fieldPublished]),
		Description:     e.Fields[fieldDescription],
		RelevanceScore:  score,
	}, true
}

// parseDate accepts unix seconds (NUMERIC field), RFC 3339 or a bare date.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	return time.Time{}
}

func filterSubstring(cands []domain.Candidate, location, company string) []domain.Candidate {
	location = strings.ToLower(strings.TrimSpace(location))
	company = strings.ToLower(strings.TrimSpace(company))
	if location == "" && company == "" {
		return cands
	}
	out := cands[:0]
	for _, c := range cands {
		if location != "" && !strings.Contains(strings.ToLower(c.Location), location) {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(c.Company), company) {
			continue
		}
		out = append(out, c)
	}
	return out
}
