// Package ranking filters and orders the candidate pool and enforces the
// score-priority rule on the final selection.
package ranking

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Options hold the rank score weights.
type Options struct {
	KeywordWeight   float64
	RelevanceWeight float64
	// RecencyHalfLife is the age at which the recency weight halves.
	RecencyHalfLife time.Duration
	Now             func() time.Time
}

// Ranker is the deterministic candidate ranker.
type Ranker struct {
	opts Options
}

// NewRanker creates a ranker. Zero options use 10 / 2 / 30 days.
func NewRanker(opts Options) *Ranker {
	if opts.KeywordWeight <= 0 {
		opts.KeywordWeight = 10
	}
	if opts.RelevanceWeight <= 0 {
		opts.RelevanceWeight = 2
	}
	if opts.RecencyHalfLife <= 0 {
		opts.RecencyHalfLife = 30 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Ranker{opts: opts}
}

// Rank filters the pool by the constraints and orders the survivors. A filter
// that would remove every candidate is skipped. Score-0 postings are always dropped.
func (r *Ranker) Rank(pool []domain.Candidate, cs domain.ConstraintSet, query string) []domain.Candidate {
	out := slices.Clone(pool)
	for _, keep := range constraintFilters(cs) {
		if kept := filter(out, keep); len(kept) > 0 {
			out = kept
		}
	}
	out = filter(out, func(c *domain.Candidate) bool {
		return c.RelevanceScore >= domain.MinVisibleScore
	})

	kws := keywords(query)
	now := r.opts.Now()
	for i := range out {
		c := &out[i]
		c.KeywordHits = keywordHits(strings.ToLower(c.Company+" "+c.Title+" "+c.Description), kws)
		c.RankScore = float64(c.KeywordHits)*r.opts.KeywordWeight +
			float64(c.RelevanceScore)*r.opts.RelevanceWeight +
			r.recency(c.PublicationDate, now)
	}

	slices.SortStableFunc(out, compareRanked)
	return out
}

// constraintFilters returns the active filters in application order:
// exclude companies, include companies, roles, then strict or loose locations.
func constraintFilters(cs domain.ConstraintSet) []func(c *domain.Candidate) bool {
	var filters []func(c *domain.Candidate) bool
	if len(cs.ExcludeCompanies) > 0 {
		filters = append(filters, func(c *domain.Candidate) bool {
			return !containsAny(companyText(c), cs.ExcludeCompanies)
		})
	}
	if len(cs.IncludeCompanies) > 0 {
		filters = append(filters, func(c *domain.Candidate) bool {
			return containsAny(companyText(c), cs.IncludeCompanies)
		})
	}
	if len(cs.Roles) > 0 {
		filters = append(filters, func(c *domain.Candidate) bool {
			return containsAny(strings.ToLower(c.Title+" "+c.Description), cs.Roles)
		})
	}
	locations := cs.StrictLocations
	if len(locations) == 0 {
		locations = cs.Locations
	}
	if len(locations) > 0 {
		filters = append(filters, func(c *domain.Candidate) bool {
			return containsAny(c.SearchText(), locations)
		})
	}
	return filters
}

func companyText(c *domain.Candidate) string {
	return strings.ToLower(c.Company + " " + c.Title + " " + c.Description)
}

// recency is 1 for a posting published now and decays toward 0; always below 1
// so it only breaks ties between equal keyword and relevance terms.
func (r *Ranker) recency(published, now time.Time) float64 {
	if published.IsZero() {
		return 0
	}
	age := max(now.Sub(published), 0)
	return 1 / (1 + float64(age)/float64(r.opts.RecencyHalfLife))
}

func compareRanked(a, b domain.Candidate) int {
	if c := cmp.Compare(b.RankScore, a.RankScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.RelevanceScore, a.RelevanceScore); c != 0 {
		return c
	}
	if c := b.PublicationDate.Compare(a.PublicationDate); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Company, b.Company); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func filter(cands []domain.Candidate, keep func(c *domain.Candidate) bool) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(cands))
	for i := range cands {
		if keep(&cands[i]) {
			out = append(out, cands[i])
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
