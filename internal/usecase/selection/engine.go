// Package selection picks the final bounded posting list and its summary text.
package selection

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
	"github.com/kailas-cloud/jobscout/internal/usecase/ranking"
)

const instructions = `Du er en dansk jobassistent. Du får en nummereret liste af job og brugerens forespørgsel.
Skriv en kort forklaring (højst 5 sætninger) af hvilke job der passer og hvorfor.
Afslut med en linje på formen
JOBS: 1, 3, 4
med numrene på de relevante job fra listen. Nævn kun job fra listen.`

// NoMatchesText is the summary of an empty pool.
const NoMatchesText = "Jeg fandt desværre ingen job, der matcher din søgning. Prøv at omformulere eller udvide søgningen."

const (
	maxDescriptionRunes = 300
	maxHistoryTurns     = 4
)

// Method names the path that produced a Selection.
type Method string

// Selection methods.
const (
	MethodLLM      Method = "llm"
	MethodFallback Method = "fallback"
	MethodNone     Method = "none"
)

// Options bound the selection.
type Options struct {
	FallbackCount int
	MinResults    int
	MaxResults    int
	// PoolSize is how many ranked candidates are shown to the LLM.
	PoolSize      int
	MaxTokens     int
}

// Selection is the final list plus its human-readable summary.
type Selection struct {
	Postings []domain.Candidate
	Summary  string
	Method   Method
}

// Engine selects from a ranked pool.
type Engine struct {
	llm  domain.Completer
	opts Options
}

// NewEngine creates a selection engine. llm can be nil.
func NewEngine(llm domain.Completer, opts Options) *Engine {
	if opts.FallbackCount <= 0 {
		opts.FallbackCount = 3
	}
	if opts.MaxResults <= 0 || opts.MaxResults > domain.MaxResults {
		opts.MaxResults = domain.MaxResults
	}
	if opts.MinResults <= 0 {
		opts.MinResults = 2
	}
	opts.MinResults = min(opts.MinResults, opts.MaxResults)
	if opts.PoolSize <= 0 || opts.PoolSize > domain.MaxResults {
		opts.PoolSize = domain.MaxResults
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 800
	}
	return &Engine{llm: llm, opts: opts}
}

// Select never fails. The score-priority rule is applied on every path.
func (e *Engine) Select(ctx context.Context, ranked []domain.Candidate, query string, history []domain.Turn) Selection {
	if len(ranked) == 0 {
		return Selection{Summary: NoMatchesText, Method: MethodNone}
	}
	pool := ranked[:min(len(ranked), e.opts.PoolSize)]

	sel, ok := e.selectLLM(ctx, pool, query, history)
	if !ok {
		sel = e.fallback(pool, query)
	}

	sel.Postings = ranking.EnforceScorePriority(sel.Postings, pool)
	if len(sel.Postings) > e.opts.MaxResults {
		sel.Postings = sel.Postings[:e.opts.MaxResults]
	}
	return sel
}

func (e *Engine) selectLLM(
	ctx context.Context, pool []domain.Candidate, query string, history []domain.Turn,
) (Selection, bool) {
	if e.llm == nil {
		return Selection{}, false
	}
	log := logger.Component(ctx, "selection")

	reply, err := e.llm.Complete(ctx, instructions, prompt(pool, query, history), e.opts.MaxTokens)
	if err != nil {
		log.Warn("LLM selection failed, using top-N fallback", zap.Error(err))
		metrics.Fallback("selection", "provider_error")
		return Selection{}, false
	}

	res := parseChoice(reply, len(pool))
	choice, ok := res.Value()
	if !ok {
		log.Warn("Unparseable selection reply, using top-N fallback", zap.String("reason", res.Reason()))
		metrics.Fallback("selection", "parse_error")
		return Selection{}, false
	}

	picked := make([]domain.Candidate, 0, len(choice.indices))
	taken := make(map[int]bool, len(choice.indices))
	for _, i := range choice.indices {
		picked = append(picked, pool[i])
		taken[i] = true
	}
	// pad in rank order up to the minimum list size
	for i := 0; i < len(pool) && len(picked) < e.opts.MinResults; i++ {
		if !taken[i] {
			picked = append(picked, pool[i])
		}
	}

	summary := choice.summary
	if summary == "" {
		summary = templateSummary(picked, query)
	}
	return Selection{Postings: picked, Summary: summary, Method: MethodLLM}, true
}

// fallback is the deterministic top-N path.
func (e *Engine) fallback(pool []domain.Candidate, query string) Selection {
	n := min(max(e.opts.FallbackCount, e.opts.MinResults), len(pool))
	picked := append([]domain.Candidate(nil), pool[:n]...)
	return Selection{Postings: picked, Summary: templateSummary(picked, query), Method: MethodFallback}
}

func templateSummary(picked []domain.Candidate, query string) string {
	var b strings.Builder
	if len(picked) == 1 {
		fmt.Fprintf(&b, "Her er det mest relevante job til \"%s\":\n", query)
	} else {
		fmt.Fprintf(&b, "Her er de %d mest relevante job til \"%s\":\n", len(picked), query)
	}
	for i, c := range picked {
		fmt.Fprintf(&b, "%d. %s hos %s", i+1, c.Title, c.Company)
		if c.Location != "" {
			fmt.Fprintf(&b, " (%s)", c.Location)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func prompt(pool []domain.Candidate, query string, history []domain.Turn) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Tidligere samtale:\n")
		for _, t := range history[max(0, len(history)-maxHistoryTurns):] {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, truncate(t.Content, maxDescriptionRunes))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Forespørgsel: %s\n\nJob:\n", query)
	for i, c := range pool {
		fmt.Fprintf(&b, "%d. %s | %s | %s | relevans %d", i+1, c.Title, c.Company, c.Location, c.RelevanceScore)
		if c.HasSimilarity {
			fmt.Fprintf(&b, " | lighed %.2f", c.Similarity)
		}
		fmt.Fprintf(&b, "\n   %s\n", truncate(strings.Join(strings.Fields(c.Description), " "), maxDescriptionRunes))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
