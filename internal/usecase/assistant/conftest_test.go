package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/usecase/conversation"
	"github.com/kailas-cloud/jobscout/internal/usecase/intent"
	"github.com/kailas-cloud/jobscout/internal/usecase/normalize"
	"github.com/kailas-cloud/jobscout/internal/usecase/retrieval"
	"github.com/kailas-cloud/jobscout/internal/usecase/selection"
)

type mockIntent struct {
	decision intent.Decision
	history  []domain.Turn
}

func (m *mockIntent) Classify(_ context.Context, _ string, history []domain.Turn) intent.Decision {
	m.history = history
	return m.decision
}

type mockNormalizer struct{ out normalize.Normalization }

func (m *mockNormalizer) Normalize(_ context.Context, raw string) normalize.Normalization {
	if m.out.Query == "" {
		return normalize.Normalization{Query: raw, Source: normalize.SourceFallback, Confidence: 0.3}
	}
	return m.out
}

type mockExtractor struct {
	cs   domain.ConstraintSet
	text string
}

func (m *mockExtractor) Extract(text string) domain.ConstraintSet {
	m.text = text
	return m.cs
}

type mockRetriever struct {
	pool  retrieval.Pool
	calls []retrieval.Request
}

func (m *mockRetriever) Retrieve(_ context.Context, req retrieval.Request) retrieval.Pool {
	m.calls = append(m.calls, req)
	return m.pool
}

// mockRanker returns the pool as ranked and records its inputs.
type mockRanker struct {
	cs    domain.ConstraintSet
	query string
}

func (m *mockRanker) Rank(pool []domain.Candidate, cs domain.ConstraintSet, query string) []domain.Candidate {
	m.cs, m.query = cs, query
	return pool
}

type mockSelector struct {
	sel    selection.Selection
	ranked []domain.Candidate
	query  string
}

func (m *mockSelector) Select(
	_ context.Context, ranked []domain.Candidate, query string, _ []domain.Turn,
) selection.Selection {
	m.ranked, m.query = ranked, query
	return m.sel
}

type mockStore struct {
	id         string
	history    []domain.Turn
	historyErr error
	appended   []domain.Turn
}

func (m *mockStore) ID() string { return m.id }

func (m *mockStore) History(_ context.Context) ([]domain.Turn, error) {
	return m.history, m.historyErr
}

func (m *mockStore) Append(_ context.Context, turns ...domain.Turn) error {
	m.appended = append(m.appended, turns...)
	return nil
}

type mockOpener struct{ store *mockStore }

func (m *mockOpener) Open(_ context.Context, _ string, _ []domain.Turn) conversation.Store {
	return m.store
}

type mockAnswerer struct {
	answer conversation.Answer
	calls  int
}

func (m *mockAnswerer) Answer(
	_ context.Context, _ conversation.Store, _ []domain.Turn, _ string,
) conversation.Answer {
	m.calls++
	return m.answer
}

type fixture struct {
	intent    *mockIntent
	norm      *mockNormalizer
	extractor *mockExtractor
	retriever *mockRetriever
	ranker    *mockRanker
	selector  *mockSelector
	store     *mockStore
	answerer  *mockAnswerer
}

func newFixture() *fixture {
	return &fixture{
		intent:    &mockIntent{decision: intent.Decision{Intent: domain.IntentNewSearch, Source: intent.SourceNoHistory}},
		norm:      &mockNormalizer{},
		extractor: &mockExtractor{},
		retriever: &mockRetriever{},
		ranker:    &mockRanker{},
		selector:  &mockSelector{},
		store:     &mockStore{},
		answerer:  &mockAnswerer{},
	}
}

func (f *fixture) service(selectionPool int) *Service {
	return New(Components{
		Intent:     f.intent,
		Normalizer: f.norm,
		Extractor:  f.extractor,
		Retriever:  f.retriever,
		Ranker:     f.ranker,
		Selector:   f.selector,
		Opener:     &mockOpener{store: f.store},
		Answerer:   f.answerer,
	}, selectionPool)
}

func candidates(n int, source mode.Mode) []domain.Candidate {
	out := make([]domain.Candidate, n)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = domain.NewCandidate(domain.JobPosting{
			ID:              fmt.Sprintf("p%d", i+1),
			Title:           fmt.Sprintf("Controller %d", i+1),
			Company:         "Firma",
			Location:        "Aarhus",
			PublicationDate: base.AddDate(0, 0, -i),
			RelevanceScore:  2,
		}, source)
	}
	return out
}
