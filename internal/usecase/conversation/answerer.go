package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

const followUpInstructions = `Du er en dansk jobassistent. Besvar brugerens opfølgende spørgsmål
udelukkende ud fra de job, der allerede er nævnt i samtalen. Find ikke på nye job
eller detaljer. Svar kort (højst 4 sætninger). Hvis svaret ikke fremgår af samtalen, så sig det.`

// ApologyText is returned when no follow-up path produced an answer.
const ApologyText = "Beklager, jeg kan ikke svare på spørgsmålet om de viste job lige nu. Prøv igen, eller start en ny søgning."

// Answer sources.
const (
	AnswerThreadRun  = "thread_run"
	AnswerCompletion = "completion"
	AnswerApology    = "apology"
)

// Answer is a follow-up reply.
type Answer struct {
	Text   string
	Source string

	// Recorded is set when the store already holds both turns.
	Recorded bool
}

// hostedRunner is implemented by stores that can run a hosted assistant.
type hostedRunner interface {
	CanRun() bool
	RunReply(ctx context.Context, message string) (string, error)
}

// Answerer replies to follow-ups from history alone; it never retrieves.
type Answerer struct {
	llm       domain.Completer
	maxTokens int
}

// NewAnswerer creates a follow-up answerer. llm can be nil.
func NewAnswerer(llm domain.Completer, maxTokens int) *Answerer {
	if maxTokens <= 0 {
		maxTokens = 400
	}
	return &Answerer{llm: llm, maxTokens: maxTokens}
}

// Answer tries the hosted run, then a completion over the history, then a fixed apology.
func (a *Answerer) Answer(ctx context.Context, store Store, history []domain.Turn, message string) Answer {
	log := logger.Component(ctx, "conversation")

	if r, ok := store.(hostedRunner); ok && r.CanRun() {
		text, err := r.RunReply(ctx, message)
		if err == nil {
			return Answer{Text: text, Source: AnswerThreadRun, Recorded: true}
		}
		log.Warn("Hosted follow-up run failed, replaying history", zap.Error(err))
		metrics.Fallback("follow_up", "thread_run_failed")
	}

	if a.llm != nil {
		text, err := a.llm.Complete(ctx, followUpInstructions, transcript(history, message), a.maxTokens)
		if err == nil {
			return Answer{Text: text, Source: AnswerCompletion}
		}
		log.Warn("Follow-up completion failed", zap.Error(err))
		metrics.Fallback("follow_up", "provider_error")
	}

	return Answer{Text: ApologyText, Source: AnswerApology}
}

func transcript(history []domain.Turn, message string) string {
	var b strings.Builder
	b.WriteString("Samtale:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "\nSpørgsmål: %s", message)
	return b.String()
}
