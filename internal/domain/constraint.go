package domain

import (
	"slices"
	"strings"
)

// ConstraintSet holds the role/location/company hints extracted from one query.
// Every field is a lower-cased, sorted, duplicate-free set. Never persisted.
type ConstraintSet struct {
	Roles []string
	// Locations is the loose set: matched places expanded with their neighbours.
	Locations []string
	// StrictLocations holds explicit place names when no "surrounding area" qualifier was used.
	StrictLocations  []string
	IncludeCompanies []string
	ExcludeCompanies []string
}

// IsEmpty reports whether no constraint was extracted.
func (c ConstraintSet) IsEmpty() bool {
	return len(c.Roles) == 0 && len(c.Locations) == 0 && len(c.StrictLocations) == 0 &&
		len(c.IncludeCompanies) == 0 && len(c.ExcludeCompanies) == 0
}

// NormalizeSet lower-cases, trims, sorts and deduplicates values.
func NormalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
