package retrieval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// --- Mocks ---

type mockProvider struct {
	mu sync.Mutex

	semantic    []domain.Candidate
	semanticErr error
	hybrid      []domain.Candidate
	hybridErr   error
	text        []domain.Candidate
	textErr     error
	delay       time.Duration // applied to the vector strategies

	semanticCalls int
	hybridCalls   int
	textCalls     int
	lastSemantic  domain.SemanticQuery
	lastText      domain.TextQuery
}

func (m *mockProvider) SemanticSearch(ctx context.Context, q domain.SemanticQuery) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.semanticCalls++
	m.lastSemantic = q
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return clone(m.semantic), m.semanticErr
}

func (m *mockProvider) TextSearch(_ context.Context, q domain.TextQuery) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.textCalls++
	m.lastText = q
	m.mu.Unlock()
	return clone(m.text), m.textErr
}

func (m *mockProvider) HybridSearch(ctx context.Context, _ domain.HybridQuery) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.hybridCalls++
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return clone(m.hybrid), m.hybridErr
}

func (m *mockProvider) wait(ctx context.Context) error {
	if m.delay == 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type mockEmbedder struct {
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 3}, nil
}

// --- Fixtures ---

func clone(c []domain.Candidate) []domain.Candidate {
	return append([]domain.Candidate(nil), c...)
}

func cands(m mode.Mode, n, score int, prefix string) []domain.Candidate {
	out := make([]domain.Candidate, n)
	for i := range out {
		p := domain.JobPosting{
			ID:             fmt.Sprintf("%s-%d", prefix, i),
			Title:          "Controller",
			Company:        "Firma",
			RelevanceScore: score,
		}
		out[i] = domain.NewCandidate(p, m)
		if m.IsVector() {
			out[i] = out[i].WithSimilarity(0.8)
		}
	}
	return out
}

func testOptions() Options {
	return Options{Timeout: time.Second}
}
