// Package conversation keeps the bounded turn history behind one Store
// interface, ephemeral or hosted-thread backed, and answers follow-ups from it.
package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

// Store kinds.
const (
	KindMemory = "memory"
	KindThread = "thread"
)

// Opener selects the store implementation by configuration.
type Opener struct {
	kind    string
	threads ThreadService
	limit   int
}

// NewOpener creates an opener. threads is only used for KindThread.
func NewOpener(kind string, threads ThreadService, limit int) *Opener {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if threads == nil {
		kind = KindMemory
	}
	return &Opener{kind: kind, threads: threads, limit: limit}
}

// Open returns the conversation store for a request. It never fails: when
// the thread service is unavailable the client history backs an ephemeral store.
// A new thread is seeded with the client history.
func (o *Opener) Open(ctx context.Context, threadID string, history []domain.Turn) Store {
	if o.kind != KindThread {
		return NewMemory(history, o.limit)
	}
	if threadID != "" {
		return NewThread(o.threads, threadID, o.limit)
	}

	log := logger.Component(ctx, "conversation")
	id, err := o.threads.CreateThread(ctx)
	if err != nil {
		log.Warn("Thread service unavailable, using ephemeral history", zap.Error(err))
		metrics.Fallback("conversation", "thread_unavailable")
		return NewMemory(history, o.limit)
	}

	th := NewThread(o.threads, id, o.limit)
	seed := NewMemory(history, o.limit)
	turns, _ := seed.History(ctx)
	if err := th.Append(ctx, turns...); err != nil {
		log.Warn("Thread seeding failed, using ephemeral history", zap.Error(err))
		metrics.Fallback("conversation", "thread_unavailable")
		return seed
	}
	return th
}
