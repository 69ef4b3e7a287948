package domain

import (
	"strings"
	"time"
)

// Relevance score bounds. Only postings at MinVisibleScore or above are shown to users.
const (
	MinRelevanceScore = 0
	MaxRelevanceScore = 3
	MinVisibleScore   = 1
	// HighRelevanceScore is the threshold of the score-priority rule.
	HighRelevanceScore = 2
)

// MaxResults caps every posting list returned to a caller.
const MaxResults = 20

// JobPosting is a stored job advertisement. Immutable from the engine's point of view.
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
	// Embedding is maintained by the external embedding job; read-only here.
	Embedding []float32 `json:"-"`
}

// ValidRelevanceScore reports whether s is one of 0, 1, 2, 3.
func ValidRelevanceScore(s int) bool {
	return s >= MinRelevanceScore && s <= MaxRelevanceScore
}

// SearchText returns the lower-cased haystack used by the constraint filters.
func (p *JobPosting) SearchText() string {
	return strings.ToLower(strings.Join([]string{p.Location, p.Title, p.Company, p.Description}, " "))
}
