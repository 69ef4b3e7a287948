package normalize

import (
	"context"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// --- Mocks ---

type mockCompleter struct {
	reply     string
	err       error
	calls     int
	lastInput string
}

func (m *mockCompleter) Complete(_ context.Context, _, input string, _ int) (string, error) {
	m.calls++
	m.lastInput = input
	return m.reply, m.err
}

type mockCatalog struct {
	snap domain.CatalogSnapshot
}

func (m *mockCatalog) Get(_ context.Context) domain.CatalogSnapshot { return m.snap }

func testSnapshot() domain.CatalogSnapshot {
	return domain.CatalogSnapshot{
		Cities:       []string{"Herning", "Aarhus"},
		Companies:    []string{"Novo Nordisk A/S"},
		Roles:        []string{"controller"},
		PostingCount: 12,
		ComputedAt:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}
