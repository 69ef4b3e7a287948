package chi

import "time"

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeProviderError    ErrorResponseCode = "provider_error"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Turn is a conversation turn on the wire.
type Turn struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	Message             string  `json:"message"`
	ConversationHistory []Turn  `json:"conversation_history,omitempty"`
	SearchType          *string `json:"search_type,omitempty"`
	ThreadID            *string `json:"thread_id,omitempty"`
}

// JobPosting is a posting as returned to callers.
type JobPosting struct {
	ID              string    `json:"id"`
	ExternalID      string    `json:"external_id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Region          string    `json:"region,omitempty"`
	PublicationDate time.Time `json:"publication_date"`
	Description     string    `json:"description"`
	RelevanceScore  int       `json:"relevance_score"`
}

// Correction is one normalizer substitution.
type Correction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AskResponse is the body of a successful ask.
type AskResponse struct {
	ResponseText     string       `json:"response_text"`
	SelectedPostings []JobPosting `json:"selected_postings"`
	StrategyUsed     string       `json:"strategy_used"`
	Intent           string       `json:"intent"`
	SelectionMethod  string       `json:"selection_method"`
	NormalizedQuery  string       `json:"normalized_query,omitempty"`
	Corrections      []Correction `json:"corrections"`
	Confidence       float64      `json:"confidence"`
	ThreadID         string       `json:"thread_id,omitempty"`
}

// SearchParams are the query parameters of GET /api/v1/search. POST takes the
// same fields as a JSON body.
type SearchParams struct {
	Query          string   `json:"query"`
	SearchType     *string  `json:"search_type,omitempty"`
	Page           *int     `json:"page,omitempty"`
	PageSize       *int     `json:"page_size,omitempty"`
	MatchThreshold *float64 `json:"match_threshold,omitempty"`
	MinScore       *int     `json:"min_score,omitempty"`
	LocationFilter *string  `json:"location_filter,omitempty"`
	CompanyFilter  *string  `json:"company_filter,omitempty"`
}

// SearchResponse is one page of raw search results.
type SearchResponse struct {
	Items        []JobPosting `json:"items"`
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	Total        int          `json:"total"`
	HasMore      bool         `json:"has_more"`
	StrategyUsed string       `json:"strategy_used"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
