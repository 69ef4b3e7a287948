package constraint

import (
	"slices"
	"testing"
)

func TestExtract_RolesAndStrictLocation(t *testing.T) {
	e := NewExtractor(DefaultRules())
	cs := e.Extract("CFO interim København")

	for _, want := range []string{"cfo", "interim"} {
		if !slices.Contains(cs.Roles, want) {
			t.Errorf("expected role %q in %v", want, cs.Roles)
		}
	}
	if !slices.Contains(cs.StrictLocations, "københavn") || !slices.Contains(cs.StrictLocations, "kbh") {
		t.Errorf("expected københavn variants in strict set, got %v", cs.StrictLocations)
	}
	if len(cs.Locations) != 0 {
		t.Errorf("loose set must be empty without area qualifier, got %v", cs.Locations)
	}
	if len(cs.IncludeCompanies) != 0 || len(cs.ExcludeCompanies) != 0 {
		t.Errorf("unexpected companies: %+v", cs)
	}
}

func TestExtract_AreaQualifierExpandsToNeighbours(t *testing.T) {
	e := NewExtractor(DefaultRules())
	cs := e.Extract("controller i Aarhus og omegn")

	if len(cs.StrictLocations) != 0 {
		t.Errorf("strict set must be empty with area qualifier, got %v", cs.StrictLocations)
	}
	for _, want := range []string{"aarhus", "århus", "skanderborg", "risskov"} {
		if !slices.Contains(cs.Locations, want) {
			t.Errorf("expected %q in loose set %v", want, cs.Locations)
		}
	}
}

func TestExtract_VariantsAreWholeWords(t *testing.T) {
	e := NewExtractor(DefaultRules())
	// "odensevej" is a street name, not the city
	cs := e.Extract("regnskabschef på Odensevej")
	if len(cs.StrictLocations) != 0 {
		t.Errorf("expected no location, got %v", cs.StrictLocations)
	}
}

func TestExtract_Companies(t *testing.T) {
	e := NewExtractor(DefaultRules())
	tests := []struct {
		text string
		want []string
	}{
		{"økonomichef hos Novo Nordisk i Bagsværd", []string{"novo nordisk"}},
		{"controller job at Maersk", []string{"maersk"}},
		{"CFO hos Vestas Wind Systems A/S", []string{"vestas wind systems a/s"}},
		{"job hos Carlsberg København", []string{"carlsberg"}},
		{"noget ved Aarhus", nil},
		{"jeg vil gerne at arbejde med regnskab", nil},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := e.Extract(tc.text).IncludeCompanies
			if !slices.Equal(got, tc.want) {
				t.Errorf("IncludeCompanies = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtract_SetsAreSortedAndUnique(t *testing.T) {
	e := NewExtractor(DefaultRules())
	cs := e.Extract("CFO cfo Aarhus århus aarhus")

	if !slices.IsSorted(cs.Roles) || !slices.IsSorted(cs.StrictLocations) {
		t.Errorf("sets must be sorted: %+v", cs)
	}
	if n := len(cs.StrictLocations); n != len(slices.Compact(slices.Clone(cs.StrictLocations))) {
		t.Errorf("duplicate locations: %v", cs.StrictLocations)
	}
}

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor(DefaultRules())
	if cs := e.Extract("fortæl mig mere om dem"); !cs.IsEmpty() {
		t.Errorf("expected empty constraint set, got %+v", cs)
	}
}

func TestRules_WithCities(t *testing.T) {
	rules := DefaultRules().WithCities([]string{"Herning", "Aarhus", "X"})
	e := NewExtractor(rules)

	cs := e.Extract("bogholder i Herning")
	if !slices.Equal(cs.StrictLocations, []string{"herning"}) {
		t.Errorf("StrictLocations = %v", cs.StrictLocations)
	}
	if n := len(rules.Places) - len(DefaultRules().Places); n != 1 {
		t.Errorf("expected 1 added place, got %d", n)
	}
}
