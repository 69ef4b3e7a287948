package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

func TestMemory_SeedFiltersAndBounds(t *testing.T) {
	seed := turns(
		"user", "a", "system", "ignored", "assistant", "",
		"assistant", "b", "user", "c", "assistant", "d",
	)
	m := NewMemory(seed, 3)

	got, err := m.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Content != "b" || got[2].Content != "d" {
		t.Fatalf("expected [b c d], got %+v", got)
	}
	for _, turn := range got {
		if turn.Timestamp.IsZero() {
			t.Error("expected timestamp to be set")
		}
	}
	if m.ID() != "" {
		t.Errorf("expected empty id, got %q", m.ID())
	}
}

func TestMemory_AppendKeepsMostRecent(t *testing.T) {
	m := NewMemory(nil, 2)
	ctx := context.Background()
	for _, c := range []string{"1", "2", "3"} {
		if err := m.Append(ctx, domain.Turn{Role: domain.RoleUser, Content: c}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, _ := m.History(ctx)
	if len(got) != 2 || got[0].Content != "2" || got[1].Content != "3" {
		t.Fatalf("expected [2 3], got %+v", got)
	}

	// History returns a copy.
	got[0].Content = "x"
	again, _ := m.History(ctx)
	if again[0].Content != "2" {
		t.Error("history must not alias internal state")
	}
}

func TestThread_HistoryBounded(t *testing.T) {
	svc := &mockThreads{messages: turns("user", "a", "assistant", "b", "user", "c")}
	th := NewThread(svc, "thread_1", 2)

	got, err := th.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Content != "b" {
		t.Fatalf("expected [b c], got %+v", got)
	}
	if svc.listLimits[0] != 2 {
		t.Errorf("expected list limit 2, got %d", svc.listLimits[0])
	}
}

func TestThread_HistoryError(t *testing.T) {
	th := NewThread(&mockThreads{listErr: errBoom}, "thread_1", 10)
	if _, err := th.History(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestThread_RunReply(t *testing.T) {
	svc := &mockThreads{assistant: true, runReply: "Jobbet kræver 3 års erfaring."}
	th := NewThread(svc, "thread_1", 10)

	reply, err := th.RunReply(context.Background(), "Hvilken erfaring kræves?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Jobbet kræver 3 års erfaring." {
		t.Errorf("unexpected reply %q", reply)
	}
	if len(svc.messages) != 2 || svc.messages[0].Role != domain.RoleUser {
		t.Fatalf("expected user and assistant turns, got %+v", svc.messages)
	}
}

func TestThread_RunFailureThenAppendSkipsPostedMessage(t *testing.T) {
	svc := &mockThreads{assistant: true, runErr: domain.ErrThreadRunFailed}
	th := NewThread(svc, "thread_1", 10)
	ctx := context.Background()

	if _, err := th.RunReply(ctx, "spørgsmål"); !errors.Is(err, domain.ErrThreadRunFailed) {
		t.Fatalf("expected ErrThreadRunFailed, got %v", err)
	}
	err := th.Append(ctx,
		domain.Turn{Role: domain.RoleUser, Content: "spørgsmål"},
		domain.Turn{Role: domain.RoleAssistant, Content: "svar"},
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(svc.messages) != 2 {
		t.Fatalf("expected user message once, got %+v", svc.messages)
	}
	if svc.messages[1].Content != "svar" {
		t.Errorf("expected assistant reply appended, got %+v", svc.messages[1])
	}
}

func TestThread_RunWithoutAssistantMessage(t *testing.T) {
	svc := &mockThreads{assistant: true, runReply: ""}
	th := NewThread(svc, "thread_1", 10)
	if _, err := th.RunReply(context.Background(), "hej"); !errors.Is(err, domain.ErrThreadRunFailed) {
		t.Fatalf("expected ErrThreadRunFailed, got %v", err)
	}
}
