// Package parse holds the tagged result returned by every LLM output parser.
package parse

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// Result is either Ok(value) or a parse failure with a reason.
type Result[T any] struct {
	value  T
	ok     bool
	reason string
}

// OK wraps a successfully parsed value.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure builds a parse failure.
func Failure[T any](format string, args ...any) Result[T] {
	return Result[T]{reason: fmt.Sprintf(format, args...)}
}

// IsOK reports whether parsing succeeded.
func (r Result[T]) IsOK() bool { return r.ok }

// Value returns the parsed value and whether it is valid.
func (r Result[T]) Value() (T, bool) { return r.value, r.ok }

// Reason describes the failure. Empty on success.
func (r Result[T]) Reason() string { return r.reason }

// Err returns nil on success, otherwise an error wrapping domain.ErrParseFailure.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrParseFailure, r.reason)
}

// ExtractJSONObject returns the outermost {...} span of s, tolerating markdown
// code fences and chatter around the payload.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
