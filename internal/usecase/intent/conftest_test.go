package intent

import (
	"context"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// --- Mocks ---

type mockCompleter struct {
	reply string
	err   error
	calls int
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string, _ int) (string, error) {
	m.calls++
	return m.reply, m.err
}

type mockCatalog struct {
	snap domain.CatalogSnapshot
}

func (m *mockCatalog) Get(_ context.Context) domain.CatalogSnapshot { return m.snap }

// shownPostings is a history whose last assistant turn listed results.
func shownPostings() []domain.Turn {
	ts := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return []domain.Turn{
		{Role: domain.RoleUser, Content: "controller i Aarhus", Timestamp: ts},
		{Role: domain.RoleAssistant, Content: "1. Controller hos Vestas\n2. Controller hos Arla", Timestamp: ts.Add(time.Second)},
	}
}
