package normalize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

const instructions = `Du normaliserer søgeforespørgsler til en dansk jobdatabase.
Udvid kendte forkortelser (roller og byer) og ret åbenlyse stavefejl.
Ændr aldrig forespørgslens betydning, og tilføj ingen nye kriterier.
Svar KUN med JSON på formen:
{"normalized_query": "...", "corrections": [{"from": "...", "to": "..."}], "confidence": 0.0}`

// maxContextItems bounds each vocabulary list sent as prompt context.
const maxContextItems = 40

// Service normalizes queries via the LLM with a dictionary fallback.
type Service struct {
	llm       domain.Completer
	catalog   CatalogReader
	dict      Dictionary
	maxTokens int
}

// New creates a normalizer. llm and catalog can be nil.
func New(llm domain.Completer, catalog CatalogReader, dict Dictionary, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Service{llm: llm, catalog: catalog, dict: dict, maxTokens: maxTokens}
}

// Normalize never fails: provider and parse errors degrade to the dictionary path.
func (s *Service) Normalize(ctx context.Context, raw string) Normalization {
	log := logger.Component(ctx, "normalize")
	snap := s.snapshot(ctx)
	dict := s.dict.WithVocabulary(vocabulary(snap))

	if s.llm == nil {
		return dict.Fallback(raw)
	}

	reply, err := s.llm.Complete(ctx, instructions, prompt(raw, snap), s.maxTokens)
	if err != nil {
		log.Warn("LLM normalization failed, using dictionary", zap.Error(err))
		metrics.Fallback("normalize", "provider_error")
		return dict.Fallback(raw)
	}

	res := parseLLMReply(reply)
	n, ok := res.Value()
	if !ok {
		log.Warn("Unparseable normalization reply, using dictionary",
			zap.String("reason", res.Reason()),
		)
		metrics.Fallback("normalize", "parse_error")
		return dict.Fallback(raw)
	}

	log.Debug("Query normalized",
		zap.String("query", n.Query),
		zap.Int("corrections", len(n.Corrections)),
		zap.Float64("confidence", n.Confidence),
	)
	return n
}

func (s *Service) snapshot(ctx context.Context) domain.CatalogSnapshot {
	if s.catalog == nil {
		return domain.CatalogSnapshot{}
	}
	return s.catalog.Get(ctx)
}

func vocabulary(snap domain.CatalogSnapshot) []string {
	words := make([]string, 0, len(snap.Cities)+len(snap.Companies)+len(snap.Roles))
	words = append(words, snap.Cities...)
	words = append(words, snap.Companies...)
	return append(words, snap.Roles...)
}

func prompt(raw string, snap domain.CatalogSnapshot) string {
	var b strings.Builder
	if !snap.IsZero() {
		fmt.Fprintf(&b, "Kendte byer: %s\n", strings.Join(head(snap.Cities), ", "))
		fmt.Fprintf(&b, "Kendte virksomheder: %s\n", strings.Join(head(snap.Companies), ", "))
		fmt.Fprintf(&b, "Kendte roller: %s\n\n", strings.Join(head(snap.Roles), ", "))
	}
	fmt.Fprintf(&b, "Forespørgsel: %s", raw)
	return b.String()
}

func head(items []string) []string {
	return items[:min(len(items), maxContextItems)]
}
