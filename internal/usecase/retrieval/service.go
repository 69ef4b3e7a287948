// Package retrieval gathers a deduplicated candidate pool from the datastore
// strategies with a cascading text fallback.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

// Candidate count bounds per strategy call.
const (
	MinCandidates = 20
	MaxCandidates = 50
)

// Options tune the orchestrator. Thresholds favour recall; ranking narrows later.
type Options struct {
	DefaultMode    mode.Mode
	Threshold      float64
	CandidateCount int
	MinScore       int
	Timeout        time.Duration
	// ConcurrentText issues the text call alongside the vector call.
	ConcurrentText bool
}

// Request is one retrieval. Zero values fall back to Options.
type Request struct {
	Query     string
	Mode      mode.Mode
	Threshold float64
	Count     int
	MinScore  int
	// Location and Company only narrow the semantic strategy.
	Location string
	Company  string
}

// Pool is the merged candidate set, vector results first.
type Pool struct {
	Candidates []domain.Candidate
	// Strategy is the first strategy that contributed; empty when nothing matched.
	Strategy        mode.Mode
	EmbeddingFailed bool
}

// Service is the retrieval orchestrator.
type Service struct {
	provider Provider
	embed    Embedder
	opts     Options
}

// New creates a retrieval orchestrator.
func New(provider Provider, embed Embedder, opts Options) *Service {
	if !opts.DefaultMode.IsValid() {
		opts.DefaultMode = mode.Semantic
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.1
	}
	if opts.CandidateCount <= 0 {
		opts.CandidateCount = 30
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.MinScore = max(opts.MinScore, domain.MinVisibleScore)
	return &Service{provider: provider, embed: embed, opts: opts}
}

// Retrieve never fails: a strategy that errors or times out counts as zero
// results, and total failure yields an empty pool.
func (s *Service) Retrieve(ctx context.Context, req Request) Pool {
	log := logger.Component(ctx, "retrieval")

	strategy := req.Mode
	if strategy == "" {
		strategy = s.opts.DefaultMode
	}
	count := clampCount(req.Count, s.opts.CandidateCount)
	minScore := max(req.MinScore, s.opts.MinScore)
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.opts.Threshold
	}

	var pool Pool
	var vector, text []domain.Candidate
	textDone := false

	if strategy.IsVector() {
		emb, err := s.embedQuery(ctx, req.Query)
		switch {
		case err != nil:
			log.Warn("Query embedding failed, skipping to text search", zap.Error(err))
			metrics.Fallback("retrieval", "embedding_error")
			pool.EmbeddingFailed = true
		case s.opts.ConcurrentText:
			var g errgroup.Group
			g.Go(func() error {
				vector = s.vectorSearch(ctx, strategy, emb, req, threshold, count, minScore)
				return nil
			})
			g.Go(func() error {
				text = s.textSearch(ctx, req.Query, count, minScore)
				return nil
			})
			_ = g.Wait()
			textDone = true
		default:
			vector = s.vectorSearch(ctx, strategy, emb, req, threshold, count, minScore)
		}
	}

	if len(vector) == 0 && !textDone {
		if strategy.IsVector() {
			log.Debug("Vector strategy returned nothing, trying text search", zap.String("strategy", string(strategy)))
		}
		text = s.textSearch(ctx, req.Query, count, minScore)
	}

	pool.Candidates = merge(minScore, count, vector, text)
	switch {
	case len(vector) > 0:
		pool.Strategy = strategy
	case len(text) > 0:
		pool.Strategy = mode.Text
	}

	metrics.RetrievalPoolSize.Observe(float64(len(pool.Candidates)))
	log.Debug("Candidate pool assembled",
		zap.Int("vector", len(vector)),
		zap.Int("text", len(text)),
		zap.Int("pool", len(pool.Candidates)),
	)
	return pool
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.embed == nil {
		return nil, domain.ErrEmbeddingProviderError
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, err //nolint:wrapcheck // logged by the caller, never surfaced
	}
	return res.Embedding, nil
}

func (s *Service) vectorSearch(
	ctx context.Context, strategy mode.Mode, emb []float32,
	req Request, threshold float64, count, minScore int,
) []domain.Candidate {
	if strategy == mode.Hybrid {
		return s.call(ctx, mode.Hybrid, func(ctx context.Context) ([]domain.Candidate, error) {
			return s.provider.HybridSearch(ctx, domain.HybridQuery{
				Embedding: emb,
				Text:      req.Query,
				Threshold: threshold,
				Count:     count,
				MinScore:  minScore,
			})
		})
	}
	return s.call(ctx, mode.Semantic, func(ctx context.Context) ([]domain.Candidate, error) {
		return s.provider.SemanticSearch(ctx, domain.SemanticQuery{
			Embedding: emb,
			Threshold: threshold,
			Count:     count,
			MinScore:  minScore,
			Location:  req.Location,
			Company:   req.Company,
		})
	})
}

func (s *Service) textSearch(ctx context.Context, query string, count, minScore int) []domain.Candidate {
	return s.call(ctx, mode.Text, func(ctx context.Context) ([]domain.Candidate, error) {
		return s.provider.TextSearch(ctx, domain.TextQuery{Text: query, Count: count, MinScore: minScore})
	})
}

// call runs one strategy under the per-call timeout and tags its results.
func (s *Service) call(
	ctx context.Context, m mode.Mode,
	fn func(context.Context) ([]domain.Candidate, error),
) []domain.Candidate {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	cands, err := fn(callCtx)
	if err != nil {
		logger.Component(ctx, "retrieval").Warn("Retrieval strategy failed",
			zap.String("strategy", string(m)),
			zap.Error(err),
		)
		metrics.RetrievalCallsTotal.WithLabelValues(string(m), "error").Inc()
		return nil
	}
	if len(cands) == 0 {
		metrics.RetrievalCallsTotal.WithLabelValues(string(m), "empty").Inc()
		return nil
	}
	metrics.RetrievalCallsTotal.WithLabelValues(string(m), "ok").Inc()

	for i := range cands {
		cands[i].Source = m
		cands[i].MarkFoundBy(m)
	}
	return cands
}

// merge deduplicates by id in list order, so the first list's instance wins and
// later sightings only add provenance. Scores below minScore are dropped.
func merge(minScore, count int, lists ...[]domain.Candidate) []domain.Candidate {
	seen := make(map[string]int)
	var out []domain.Candidate
	for _, list := range lists {
		for _, c := range list {
			if c.ID == "" || !domain.ValidRelevanceScore(c.RelevanceScore) || c.RelevanceScore < minScore {
				continue
			}
			if i, ok := seen[c.ID]; ok {
				for _, m := range c.FoundBy {
					out[i].MarkFoundBy(m)
				}
				continue
			}
			seen[c.ID] = len(out)
			out = append(out, c)
		}
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func clampCount(requested, fallback int) int {
	n := requested
	if n <= 0 {
		n = fallback
	}
	return min(max(n, MinCandidates), MaxCandidates)
}
