package domain

import "context"

// Completer is the LLM provider contract: free-text in, free-text out.
// Callers parse the output defensively; nothing about its shape is guaranteed.
type Completer interface {
	Complete(ctx context.Context, instructions, input string, maxTokens int) (string, error)
}
