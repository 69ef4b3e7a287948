// Package intent decides whether a message is a follow-up on shown postings or a new search.
package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

const instructions = `Du klassificerer beskeder i en dansk jobsøgningschat.
Svar FOLLOW_UP hvis beskeden kun spørger til job, der allerede er vist i samtalen
(fx "fortæl mig mere om dem", "hvad med job 2"), uden nye krav til rolle, sted,
virksomhed eller jobtype.
Svar NEW_SEARCH hvis beskeden indfører et nyt kriterium eller beder om flere eller lignende job.
Svar med præcis ét ord: FOLLOW_UP eller NEW_SEARCH.`

// maxTurnRunes truncates each replayed turn in the prompt.
const maxTurnRunes = 600

// Decision sources.
const (
	SourceNoHistory = "no_history"
	SourceHeuristic = "heuristic"
	SourceLLM       = "llm"
	SourceFallback  = "fallback"
)

// CatalogReader supplies catalog vocabulary for the heuristic.
type CatalogReader interface {
	Get(ctx context.Context) domain.CatalogSnapshot
}

// Decision is the classification plus the layer that made it.
type Decision struct {
	Intent domain.Intent
	Source string
	// Term is the vocabulary hit when Source is heuristic.
	Term string
}

// Classifier labels incoming messages.
type Classifier struct {
	llm       domain.Completer
	catalog   CatalogReader
	vocab     Vocabulary
	maxTokens int
}

// NewClassifier creates a classifier. llm and catalog can be nil; without an
// LLM every message is a new search.
func NewClassifier(llm domain.Completer, catalog CatalogReader, vocab Vocabulary, maxTokens int) *Classifier {
	if maxTokens <= 0 {
		maxTokens = 10
	}
	return &Classifier{llm: llm, catalog: catalog, vocab: vocab, maxTokens: maxTokens}
}

// Classify never fails; any provider or parse problem yields NEW_SEARCH.
func (c *Classifier) Classify(ctx context.Context, message string, history []domain.Turn) Decision {
	d := c.classify(ctx, message, history)
	metrics.IntentTotal.WithLabelValues(string(d.Intent), d.Source).Inc()
	logger.Component(ctx, "intent").Debug("Intent classified",
		zap.String("intent", string(d.Intent)),
		zap.String("source", d.Source),
		zap.String("term", d.Term),
	)
	return d
}

func (c *Classifier) classify(ctx context.Context, message string, history []domain.Turn) Decision {
	if _, ok := domain.LastAssistantTurn(history); !ok {
		return Decision{Intent: domain.IntentNewSearch, Source: SourceNoHistory}
	}

	vocab := c.vocab
	if c.catalog != nil {
		vocab = vocab.WithCatalog(c.catalog.Get(ctx))
	}
	if term, ok := vocab.Match(message); ok {
		return Decision{Intent: domain.IntentNewSearch, Source: SourceHeuristic, Term: term}
	}

	if c.llm == nil {
		return Decision{Intent: domain.IntentNewSearch, Source: SourceFallback}
	}

	log := logger.Component(ctx, "intent")
	reply, err := c.llm.Complete(ctx, instructions, prompt(message, history), c.maxTokens)
	if err != nil {
		log.Warn("Intent classification failed, assuming new search", zap.Error(err))
		metrics.Fallback("intent", "provider_error")
		return Decision{Intent: domain.IntentNewSearch, Source: SourceFallback}
	}

	res := parseLabel(reply)
	label, ok := res.Value()
	if !ok {
		log.Warn("Unparseable intent label, assuming new search", zap.String("reason", res.Reason()))
		metrics.Fallback("intent", "parse_error")
		return Decision{Intent: domain.IntentNewSearch, Source: SourceFallback}
	}
	return Decision{Intent: label, Source: SourceLLM}
}

func prompt(message string, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString("Samtale:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, truncate(t.Content, maxTurnRunes))
	}
	fmt.Fprintf(&b, "\nNy besked: %s", message)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
