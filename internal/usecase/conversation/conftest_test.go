package conversation

import (
	"context"
	"errors"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

type mockThreads struct {
	createID   string
	createErr  error
	addErr     error
	runErr     error
	listErr    error
	assistant  bool
	messages   []domain.Turn
	runReply   string
	runs       int
	listLimits []int
}

func (m *mockThreads) CreateThread(_ context.Context) (string, error) {
	return m.createID, m.createErr
}

func (m *mockThreads) AddMessage(_ context.Context, _ string, role domain.Role, content string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.messages = append(m.messages, domain.Turn{Role: role, Content: content})
	return nil
}

func (m *mockThreads) RunAndWait(_ context.Context, _ string) error {
	m.runs++
	if m.runErr != nil {
		return m.runErr
	}
	m.messages = append(m.messages, domain.Turn{Role: domain.RoleAssistant, Content: m.runReply})
	return nil
}

func (m *mockThreads) ListMessages(_ context.Context, _ string, limit int) ([]domain.Turn, error) {
	m.listLimits = append(m.listLimits, limit)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return domain.TrimHistory(append([]domain.Turn(nil), m.messages...), limit), nil
}

func (m *mockThreads) HasAssistant() bool { return m.assistant }

type mockCompleter struct {
	reply string
	err   error
	input string
}

func (m *mockCompleter) Complete(_ context.Context, _, input string, _ int) (string, error) {
	m.input = input
	return m.reply, m.err
}

var errBoom = errors.New("boom")

func turns(pairs ...string) []domain.Turn {
	out := make([]domain.Turn, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Turn{Role: domain.Role(pairs[i]), Content: pairs[i+1]})
	}
	return out
}
