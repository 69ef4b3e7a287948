package conversation

import (
	"context"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Store holds the bounded recent turns of one conversation.
type Store interface {
	// ID is the external thread id; empty for ephemeral stores.
	ID() string
	History(ctx context.Context) ([]domain.Turn, error)
	Append(ctx context.Context, turns ...domain.Turn) error
}

// ThreadService is the hosted conversation thread contract.
type ThreadService interface {
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadID string, role domain.Role, content string) error
	RunAndWait(ctx context.Context, threadID string) error
	ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Turn, error)
	HasAssistant() bool
}
