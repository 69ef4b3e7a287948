package ranking

import (
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

type postingOpt func(p *domain.JobPosting)

func withCompany(s string) postingOpt     { return func(p *domain.JobPosting) { p.Company = s } }
func withLocation(s string) postingOpt    { return func(p *domain.JobPosting) { p.Location = s } }
func withDescription(s string) postingOpt { return func(p *domain.JobPosting) { p.Description = s } }
func withDate(t time.Time) postingOpt     { return func(p *domain.JobPosting) { p.PublicationDate = t } }

func cand(id, title string, score int, opts ...postingOpt) domain.Candidate {
	p := domain.JobPosting{
		ID:              id,
		Title:           title,
		Company:         "Firma A/S",
		Location:        "Danmark",
		RelevanceScore:  score,
		PublicationDate: daysAgo(10),
	}
	for _, o := range opts {
		o(&p)
	}
	return domain.NewCandidate(p, mode.Semantic)
}

func ids(cands []domain.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}
