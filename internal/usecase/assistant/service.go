// Package assistant orchestrates one incoming message: intent, then either a
// follow-up answer or the normalize, retrieve, rank and select pipeline.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/domain/search/request"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/usecase/conversation"
	"github.com/kailas-cloud/jobscout/internal/usecase/normalize"
	"github.com/kailas-cloud/jobscout/internal/usecase/retrieval"
	"github.com/kailas-cloud/jobscout/internal/usecase/selection"
)

// Strategy labels reported to callers besides the retrieval modes.
const (
	StrategyFollowUp = "follow_up"
	StrategyNone     = "none"
)

// DefaultSelectionPool is how many ranked candidates the selection step sees.
const DefaultSelectionPool = 20

// Components are the collaborators of the service.
type Components struct {
	Intent     IntentClassifier
	Normalizer Normalizer
	Extractor  ConstraintExtractor
	Retriever  Retriever
	Ranker     Ranker
	Selector   Selector
	Opener     ConversationOpener
	Answerer   FollowUpAnswerer
}

// AskRequest is one conversational message.
type AskRequest struct {
	Message  string
	History  []domain.Turn
	Mode     mode.Mode
	ThreadID string
}

// AskResponse is the reply to one message.
type AskResponse struct {
	ResponseText    string
	Postings        []domain.JobPosting
	Strategy        string
	Intent          domain.Intent
	SelectionMethod selection.Method
	NormalizedQuery string
	Corrections     []normalize.Correction
	Confidence      float64
	ThreadID        string
}

// SearchResponse is one page of raw search results.
type SearchResponse struct {
	Items    []domain.JobPosting
	Page     int
	PageSize int
	Total    int
	HasMore  bool
	Strategy string
}

// Service handles ask and raw search.
type Service struct {
	c             Components
	selectionPool int
}

// New creates the assistant service. selectionPool <= 0 uses DefaultSelectionPool.
func New(c Components, selectionPool int) *Service {
	if selectionPool <= 0 {
		selectionPool = DefaultSelectionPool
	}
	return &Service{c: c, selectionPool: min(selectionPool, domain.MaxResults)}
}

// Ask answers a message. Only invalid input is returned as an error; every
// provider failure degrades to a fallback inside the pipeline.
func (s *Service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return AskResponse{}, domain.NewValidationError("message", "is required")
	}
	if len(msg) > request.MaxQueryLength {
		return AskResponse{}, domain.NewValidationError("message", "is too long")
	}
	if req.Mode != "" && !req.Mode.IsValid() {
		return AskResponse{}, domain.NewValidationError("search_type", "must be semantic, text or hybrid")
	}

	log := logger.Component(ctx, "assistant")
	store := s.c.Opener.Open(ctx, req.ThreadID, req.History)
	history, err := store.History(ctx)
	if err != nil {
		log.Warn("Conversation history unavailable, using client history", zap.Error(err))
		history, _ = conversation.NewMemory(req.History, 0).History(ctx)
	}

	decision := s.c.Intent.Classify(ctx, msg, history)
	resp := AskResponse{Intent: decision.Intent, ThreadID: store.ID()}

	if decision.Intent == domain.IntentFollowUp {
		ans := s.c.Answerer.Answer(ctx, store, history, msg)
		resp.ResponseText = ans.Text
		resp.Postings = []domain.JobPosting{}
		resp.Strategy = StrategyFollowUp
		resp.SelectionMethod = selection.MethodNone
		if !ans.Recorded {
			s.record(ctx, store, msg, ans.Text)
		}
		return resp, nil
	}

	norm := s.c.Normalizer.Normalize(ctx, msg)
	resp.NormalizedQuery = norm.Query
	resp.Corrections = norm.Corrections
	resp.Confidence = norm.Confidence

	cs := s.c.Extractor.Extract(msg + "\n" + norm.Query)
	pool := s.c.Retriever.Retrieve(ctx, retrieval.Request{Query: norm.Query, Mode: req.Mode})
	ranked := s.c.Ranker.Rank(pool.Candidates, cs, norm.Query)
	if len(ranked) > s.selectionPool {
		ranked = ranked[:s.selectionPool]
	}

	sel := s.c.Selector.Select(ctx, ranked, msg, history)
	resp.ResponseText = sel.Summary
	resp.Postings = domain.Postings(sel.Postings)
	resp.SelectionMethod = sel.Method
	resp.Strategy = StrategyNone
	if len(sel.Postings) > 0 {
		resp.Strategy = string(pool.Strategy)
	}

	log.Debug("Ask handled",
		zap.String("intent", string(decision.Intent)),
		zap.String("intent_source", decision.Source),
		zap.Int("pool", len(pool.Candidates)),
		zap.Int("ranked", len(ranked)),
		zap.Int("selected", len(sel.Postings)),
		zap.String("selection", string(sel.Method)),
	)

	s.record(ctx, store, msg, transcriptEntry(sel))
	return resp, nil
}

// Search runs the raw search: retrieval and ranking only, paginated.
func (s *Service) Search(ctx context.Context, req *request.Request) (SearchResponse, error) {
	count := req.Offset() + req.PageSize()
	pool := s.c.Retriever.Retrieve(ctx, retrieval.Request{
		Query:     req.Query(),
		Mode:      req.Mode(),
		Threshold: req.MatchThreshold(),
		Count:     count,
		MinScore:  req.MinScore(),
		Location:  req.LocationFilter(),
		Company:   req.CompanyFilter(),
	})
	if err := ctx.Err(); err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	var cs domain.ConstraintSet
	if loc := req.LocationFilter(); loc != "" {
		cs.StrictLocations = domain.NormalizeSet([]string{loc})
	}
	if company := req.CompanyFilter(); company != "" {
		cs.IncludeCompanies = domain.NormalizeSet([]string{company})
	}
	ranked := s.c.Ranker.Rank(pool.Candidates, cs, req.Query())

	resp := SearchResponse{
		Items:    []domain.JobPosting{},
		Page:     req.Page(),
		PageSize: req.PageSize(),
		Total:    len(ranked),
		Strategy: StrategyNone,
	}
	if len(ranked) > 0 {
		resp.Strategy = string(pool.Strategy)
	}
	start := min(req.Offset(), len(ranked))
	end := min(start+req.PageSize(), len(ranked))
	resp.Items = append(resp.Items, domain.Postings(ranked[start:end])...)
	resp.HasMore = end < len(ranked)
	return resp, nil
}

func (s *Service) record(ctx context.Context, store conversation.Store, question, answer string) {
	now := time.Now().UTC()
	err := store.Append(ctx,
		domain.Turn{Role: domain.RoleUser, Content: question, Timestamp: now},
		domain.Turn{Role: domain.RoleAssistant, Content: answer, Timestamp: now},
	)
	if err != nil {
		logger.Component(ctx, "assistant").Warn("Failed to record conversation turns", zap.Error(err))
	}
}

// transcriptEntry is the assistant turn stored for a search: the summary
// followed by the numbered postings, so follow-ups can refer to them.
func transcriptEntry(sel selection.Selection) string {
	if len(sel.Postings) == 0 {
		return sel.Summary
	}
	var b strings.Builder
	b.WriteString(sel.Summary)
	b.WriteString("\n\nViste job:")
	for i, c := range sel.Postings {
		fmt.Fprintf(&b, "\n%d. %s hos %s (%s)", i+1, c.Title, c.Company, c.Location)
	}
	return b.String()
}
