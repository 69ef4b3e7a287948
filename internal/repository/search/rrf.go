package search

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges KNN and BM25 candidates via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a posting appears in both lists, the KNN instance is kept (it carries the similarity).
func fuseRRF(knn, bm25 []domain.Candidate, topK int) []domain.Candidate {
	type scored struct {
		cand  domain.Candidate
		score float64
	}

	merged := make(map[string]*scored, len(knn)+len(bm25))
	order := make([]string, 0, len(knn)+len(bm25))

	for rank, c := range knn {
		if _, ok := merged[c.ID]; ok {
			continue
		}
		merged[c.ID] = &scored{cand: c, score: 1.0 / float64(rrfK+rank+1)}
		order = append(order, c.ID)
	}

	for rank, c := range bm25 {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[c.ID]; ok {
			existing.score += s
			continue
		}
		merged[c.ID] = &scored{cand: c, score: s}
		order = append(order, c.ID)
	}

	results := make([]*scored, 0, len(order))
	for _, id := range order {
		results = append(results, merged[id])
	}

	slices.SortStableFunc(results, func(a, b *scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.cand.ID, b.cand.ID)
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	out := make([]domain.Candidate, len(results))
	for i, s := range results {
		out[i] = s.cand
	}
	return out
}
