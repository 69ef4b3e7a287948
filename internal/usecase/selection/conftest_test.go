package selection

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// --- Mocks ---

type mockCompleter struct {
	reply     string
	err       error
	calls     int
	lastInput string
}

func (m *mockCompleter) Complete(_ context.Context, _, input string, _ int) (string, error) {
	m.calls++
	m.lastInput = input
	return m.reply, m.err
}

// rankedPool builds a ranked pool with the given relevance scores.
func rankedPool(scores ...int) []domain.Candidate {
	out := make([]domain.Candidate, len(scores))
	for i, s := range scores {
		out[i] = domain.NewCandidate(domain.JobPosting{
			ID:             fmt.Sprintf("p%d", i+1),
			Title:          fmt.Sprintf("Controller %d", i+1),
			Company:        fmt.Sprintf("Firma %d", i+1),
			Location:       "Aarhus",
			Description:    "Ansvar for månedsregnskab og rapportering.",
			RelevanceScore: s,
		}, mode.Semantic).WithSimilarity(0.5)
	}
	return out
}

func ids(cands []domain.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}
