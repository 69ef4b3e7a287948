package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Memory is the ephemeral store backed by the history the client resubmits.
// It lives for one request and is not shared.
type Memory struct {
	turns []domain.Turn
	limit int
}

// NewMemory seeds a store with client history. Turns with an unknown role or
// empty content are dropped; only the most recent limit turns are kept.
func NewMemory(seed []domain.Turn, limit int) *Memory {
	m := &Memory{limit: limit}
	m.add(seed)
	return m
}

// ID implements Store.
func (m *Memory) ID() string { return "" }

// History implements Store.
func (m *Memory) History(_ context.Context) ([]domain.Turn, error) {
	return append([]domain.Turn(nil), m.turns...), nil
}

// Append implements Store.
func (m *Memory) Append(_ context.Context, turns ...domain.Turn) error {
	m.add(turns)
	return nil
}

func (m *Memory) add(turns []domain.Turn) {
	for _, t := range turns {
		if !t.Role.IsValid() || strings.TrimSpace(t.Content) == "" {
			continue
		}
		if t.Timestamp.IsZero() {
			t.Timestamp = time.Now().UTC()
		}
		m.turns = append(m.turns, t)
	}
	m.turns = domain.TrimHistory(m.turns, m.limit)
}
