package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/domain/search/request"
	assistantuc "github.com/kailas-cloud/jobscout/internal/usecase/assistant"
	healthuc "github.com/kailas-cloud/jobscout/internal/usecase/health"
)

// Assistant is the use case behind the ask and search routes.
type Assistant interface {
	Ask(ctx context.Context, req assistantuc.AskRequest) (assistantuc.AskResponse, error)
	Search(ctx context.Context, req *request.Request) (assistantuc.SearchResponse, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the jobscout HTTP API.
type Server struct {
	assistant     Assistant
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(assistant Assistant, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		assistant: assistant,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrThreadRunFailed, http.StatusBadGateway, ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrThreadRunTimeout, http.StatusGatewayTimeout, ErrorResponseCodeProviderError),
	}
	return s
}

// Handler registers the API routes on r and returns it.
func Handler(s *Server, r gochi.Router) http.Handler {
	r.Post("/api/v1/ask", s.Ask)
	r.Get("/api/v1/search", s.searchQueryWrapper)
	r.Post("/api/v1/search", s.SearchPost)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// Ask handles POST /api/v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	history, err := turnsFromWire(req.ConversationHistory)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.assistant.Ask(ctx, assistantuc.AskRequest{
		Message:  req.Message,
		History:  history,
		Mode:     mode.Mode(derefString(req.SearchType)),
		ThreadID: derefString(req.ThreadID),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, askResponseToWire(&resp))
}

// searchQueryWrapper binds the query parameters of GET /api/v1/search.
func (s *Server) searchQueryWrapper(w http.ResponseWriter, r *http.Request) {
	var (
		params SearchParams
		query  *string
	)
	bindings := []struct {
		name string
		dest any
	}{
		{"query", &query},
		{"search_type", &params.SearchType},
		{"page", &params.Page},
		{"page_size", &params.PageSize},
		{"match_threshold", &params.MatchThreshold},
		{"min_score", &params.MinScore},
		{"location_filter", &params.LocationFilter},
		{"company_filter", &params.CompanyFilter},
	}
	values := r.URL.Query()
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest,
				fmt.Sprintf("Invalid format for parameter %s: %s", b.name, err))
			return
		}
	}
	params.Query = derefString(query)

	s.Search(w, r, params)
}

// SearchPost handles POST /api/v1/search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.Search(w, r, params)
}

// Search handles GET|POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params SearchParams) {
	req, err := request.New(request.Params{
		Query:          params.Query,
		Mode:           mode.Mode(derefString(params.SearchType)),
		Page:           derefInt(params.Page),
		PageSize:       derefInt(params.PageSize),
		MatchThreshold: derefFloat(params.MatchThreshold),
		MinScore:       derefInt(params.MinScore),
		LocationFilter: derefString(params.LocationFilter),
		CompanyFilter:  derefString(params.CompanyFilter),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.assistant.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:        postingsToWire(resp.Items),
		Page:         resp.Page,
		PageSize:     resp.PageSize,
		Total:        resp.Total,
		HasMore:      resp.HasMore,
		StrategyUsed: resp.Strategy,
	})
}

// HealthCheck handles GET /health. Degraded providers still answer 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	embTokens, llmTokens, llmCalls := usage.Snapshot()
	if embTokens > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(embTokens))
	}
	if llmCalls > 0 {
		w.Header().Set("X-LLM-Calls", strconv.Itoa(llmCalls))
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(llmTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrLLMProviderError,
		domain.ErrProviderUnavailable,
		domain.ErrThreadRunFailed,
		domain.ErrThreadRunTimeout,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports the offending field of a ValidationError.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, ve.Field+" "+ve.Reason)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func turnsFromWire(in []Turn) ([]domain.Turn, error) {
	out := make([]domain.Turn, 0, len(in))
	for i, t := range in {
		role := domain.Role(t.Role)
		if !role.IsValid() {
			return nil, domain.NewValidationError(
				fmt.Sprintf("conversation_history[%d].role", i), "must be user or assistant")
		}
		turn := domain.Turn{Role: role, Content: t.Content}
		if t.Timestamp != nil {
			turn.Timestamp = t.Timestamp.UTC()
		}
		out = append(out, turn)
	}
	return out, nil
}

func askResponseToWire(r *assistantuc.AskResponse) AskResponse {
	corrections := make([]Correction, len(r.Corrections))
	for i, c := range r.Corrections {
		corrections[i] = Correction{From: c.From, To: c.To}
	}
	return AskResponse{
		ResponseText:     r.ResponseText,
		SelectedPostings: postingsToWire(r.Postings),
		StrategyUsed:     r.Strategy,
		Intent:           string(r.Intent),
		SelectionMethod:  string(r.SelectionMethod),
		NormalizedQuery:  r.NormalizedQuery,
		Corrections:      corrections,
		Confidence:       r.Confidence,
		ThreadID:         r.ThreadID,
	}
}

func postingsToWire(postings []domain.JobPosting) []JobPosting {
	out := make([]JobPosting, len(postings))
	for i := range postings {
		p := &postings[i]
		out[i] = JobPosting{
			ID:              p.ID,
			ExternalID:      p.ExternalID,
			Title:           p.Title,
			Company:         p.Company,
			Location:        p.Location,
			Region:          p.Region,
			PublicationDate: p.PublicationDate,
			Description:     p.Description,
			RelevanceScore:  p.RelevanceScore,
		}
	}
	return out
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
