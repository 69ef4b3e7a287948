package domain

import (
	"slices"

	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// Candidate is a JobPosting plus the request-scoped scoring fields.
type Candidate struct {
	JobPosting

	// Similarity is only meaningful when HasSimilarity is set (vector strategies).
	Similarity    float64
	HasSimilarity bool
	KeywordHits   int
	RankScore     float64
	// Source is the strategy whose instance was kept after deduplication.
	Source mode.Mode
	// FoundBy lists every strategy that returned this posting.
	FoundBy []mode.Mode
}

// NewCandidate wraps a posting returned by the given strategy.
func NewCandidate(p JobPosting, source mode.Mode) Candidate {
	return Candidate{JobPosting: p, Source: source, FoundBy: []mode.Mode{source}}
}

// WithSimilarity returns a copy carrying a vector similarity.
func (c Candidate) WithSimilarity(sim float64) Candidate {
	c.Similarity = sim
	c.HasSimilarity = true
	return c
}

// MarkFoundBy records an additional strategy provenance.
func (c *Candidate) MarkFoundBy(m mode.Mode) {
	if !slices.Contains(c.FoundBy, m) {
		c.FoundBy = append(c.FoundBy, m)
	}
}

// Postings strips the scoring fields.
func Postings(cands []Candidate) []JobPosting {
	out := make([]JobPosting, len(cands))
	for i := range cands {
		out[i] = cands[i].JobPosting
	}
	return out
}
