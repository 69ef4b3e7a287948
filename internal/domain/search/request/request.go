package request

import (
	"strings"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength  = 1000
	DefaultPageSize = 10
	MaxPageSize     = domain.MaxResults
	// MaxPage bounds paging into the candidate pool.
	MaxPage = 50
)

// Request is a validated raw search query.
type Request struct {
	query          string
	searchMode     mode.Mode
	page           int
	pageSize       int
	matchThreshold float64
	minScore       int
	locationFilter string
	companyFilter  string
}

// Params are the unvalidated raw search inputs.
type Params struct {
	Query          string
	Mode           mode.Mode
	Page           int
	PageSize       int
	MatchThreshold float64
	MinScore       int
	LocationFilter string
	CompanyFilter  string
}

// New validates and normalizes search parameters.
// Defaults: page=1, page_size=10, min_score=1. An empty mode is resolved by the orchestrator.
func New(p Params) (Request, error) {
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return Request{}, domain.NewValidationError("query", "is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("query", "is too long")
	}
	if p.Mode != "" && !p.Mode.IsValid() {
		return Request{}, domain.NewValidationError("search_type", "must be semantic, text or hybrid")
	}
	if p.MatchThreshold < 0 || p.MatchThreshold > 1 {
		return Request{}, domain.NewValidationError("match_threshold", "must be between 0 and 1")
	}
	if p.MinScore < 0 || p.MinScore > domain.MaxRelevanceScore {
		return Request{}, domain.NewValidationError("min_score", "must be between 0 and 3")
	}
	if p.Page < 0 || p.PageSize < 0 {
		return Request{}, domain.NewValidationError("page", "must not be negative")
	}

	page := p.Page
	if page == 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// score 0 is never user-facing
	minScore := max(p.MinScore, domain.MinVisibleScore)

	return Request{
		query:          query,
		searchMode:     p.Mode,
		page:           page,
		pageSize:       pageSize,
		matchThreshold: p.MatchThreshold,
		minScore:       minScore,
		locationFilter: strings.TrimSpace(p.LocationFilter),
		companyFilter:  strings.TrimSpace(p.CompanyFilter),
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the retrieval strategy (empty means service default).
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the index of the first item of the page.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// MatchThreshold returns the similarity floor (0 means service default).
func (r *Request) MatchThreshold() float64 { return r.matchThreshold }

// MinScore returns the relevance score floor (always >= 1).
func (r *Request) MinScore() int { return r.minScore }

// LocationFilter returns the optional location filter.
func (r *Request) LocationFilter() string { return r.locationFilter }

// CompanyFilter returns the optional company filter.
func (r *Request) CompanyFilter() string { return r.companyFilter }
