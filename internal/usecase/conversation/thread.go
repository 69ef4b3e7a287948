package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Thread is the store backed by the hosted thread service.
type Thread struct {
	svc   ThreadService
	id    string
	limit int

	// pending is a user message already posted by RunReply; Append skips it once.
	pending string
}

// NewThread wraps an existing thread.
func NewThread(svc ThreadService, id string, limit int) *Thread {
	return &Thread{svc: svc, id: id, limit: limit}
}

// ID implements Store.
func (t *Thread) ID() string { return t.id }

// History implements Store.
func (t *Thread) History(ctx context.Context) ([]domain.Turn, error) {
	turns, err := t.svc.ListMessages(ctx, t.id, t.limit)
	if err != nil {
		return nil, fmt.Errorf("list thread messages: %w", err)
	}
	return domain.TrimHistory(turns, t.limit), nil
}

// Append implements Store.
func (t *Thread) Append(ctx context.Context, turns ...domain.Turn) error {
	for _, turn := range turns {
		if turn.Role == domain.RoleUser && t.pending != "" && turn.Content == t.pending {
			t.pending = ""
			continue
		}
		if err := t.svc.AddMessage(ctx, t.id, turn.Role, turn.Content); err != nil {
			return fmt.Errorf("add thread message: %w", err)
		}
	}
	return nil
}

// CanRun reports whether hosted assistant runs are configured.
func (t *Thread) CanRun() bool { return t.svc.HasAssistant() }

// RunReply posts the user message, runs the hosted assistant and returns its
// reply. On success both turns are already recorded in the thread.
func (t *Thread) RunReply(ctx context.Context, message string) (string, error) {
	if err := t.svc.AddMessage(ctx, t.id, domain.RoleUser, message); err != nil {
		return "", fmt.Errorf("add thread message: %w", err)
	}
	t.pending = message

	if err := t.svc.RunAndWait(ctx, t.id); err != nil {
		return "", fmt.Errorf("thread run: %w", err)
	}
	t.pending = ""

	latest, err := t.svc.ListMessages(ctx, t.id, 1)
	if err != nil {
		return "", fmt.Errorf("list thread messages: %w", err)
	}
	if len(latest) == 0 || latest[0].Role != domain.RoleAssistant || latest[0].Content == "" {
		return "", errors.Join(domain.ErrThreadRunFailed, errors.New("run produced no assistant message"))
	}
	return latest[0].Content, nil
}
