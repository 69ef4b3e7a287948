package search

import (
	"context"
	"strconv"
	"testing"

	"github.com/kailas-cloud/jobscout/internal/db"
	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchBM25Fn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchBM25Fn != nil {
		return m.searchBM25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func entry(id string, score float64, relevance int, fields map[string]string) db.SearchEntry {
	f := map[string]string{
		fieldTitle:     "Title " + id,
		fieldCompany:   "Company " + id,
		fieldLocation:  "København",
		fieldRelevance: strconv.Itoa(relevance),
	}
	for k, v := range fields {
		f[k] = v
	}
	return db.SearchEntry{Key: domain.PostingKeyPrefix + id, Score: score, Fields: f}
}

func result(entries ...db.SearchEntry) *db.SearchResult {
	return &db.SearchResult{Total: len(entries), Entries: entries}
}

func cand(id string, source mode.Mode) domain.Candidate {
	return domain.NewCandidate(domain.JobPosting{ID: id, RelevanceScore: 2}, source)
}

func testVector() []float32 {
	return []float32{0.1, 0.1, 0.1, 0.1}
}
