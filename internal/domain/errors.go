package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a caller-correctable request problem (missing query, bad paging).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProviderUnavailable signals a failed or timed out call to an external provider.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrParseFailure signals LLM output that does not match the expected structure.
	ErrParseFailure = errors.New("unparseable provider output")
	// ErrThreadRunFailed signals a hosted conversation run that ended in a failed state.
	ErrThreadRunFailed = errors.New("thread run failed")
	// ErrThreadRunTimeout signals a hosted conversation run that did not finish in time.
	ErrThreadRunTimeout = errors.New("thread run timed out")
)

// ValidationError wraps ErrInvalidInput with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError creates a validation error for a request field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
