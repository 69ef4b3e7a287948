package domain

import "time"

// CatalogSnapshot summarises the stored postings. It feeds the normalizer
// vocabulary and the intent heuristic.
type CatalogSnapshot struct {
	Cities       []string  `json:"cities"`
	Companies    []string  `json:"companies"`
	Roles        []string  `json:"roles"`
	PostingCount int       `json:"posting_count"`
	ComputedAt   time.Time `json:"computed_at"`
}

// IsZero reports whether the snapshot was never computed.
func (s CatalogSnapshot) IsZero() bool {
	return s.ComputedAt.IsZero()
}
