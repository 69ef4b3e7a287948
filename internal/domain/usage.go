package domain

import (
	"context"
	"sync"
)

type usageKey struct{}

// Usage collects provider token usage for a single inbound request.
// The handler puts a mutable pointer into the context before calling the service;
// providers add to it; the handler reads it for response headers.
type Usage struct {
	mu              sync.Mutex
	embeddingTokens int
	llmTokens       int
	llmCalls        int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbeddingTokens records consumed embedding tokens.
func (u *Usage) AddEmbeddingTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.mu.Unlock()
}

// AddLLMCall records one completion call and its tokens.
func (u *Usage) AddLLMCall(tokens int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.llmCalls++
	u.llmTokens += tokens
	u.mu.Unlock()
}

// Snapshot returns embedding tokens, llm tokens and llm call count.
func (u *Usage) Snapshot() (embeddingTokens, llmTokens, llmCalls int) {
	if u == nil {
		return 0, 0, 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens, u.llmTokens, u.llmCalls
}
