package parse

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

func TestOK(t *testing.T) {
	r := OK(42)
	v, ok := r.Value()
	if !ok || v != 42 || !r.IsOK() {
		t.Fatalf("expected ok 42, got %d %v", v, ok)
	}
	if r.Err() != nil || r.Reason() != "" {
		t.Errorf("unexpected failure info: %v %q", r.Err(), r.Reason())
	}
}

func TestFailure(t *testing.T) {
	r := Failure[[]int]("missing field %q", "indices")
	if r.IsOK() {
		t.Fatal("expected failure")
	}
	if _, ok := r.Value(); ok {
		t.Error("Value() should report not ok")
	}
	if !errors.Is(r.Err(), domain.ErrParseFailure) {
		t.Errorf("expected ErrParseFailure, got %v", r.Err())
	}
	if r.Reason() != `missing field "indices"` {
		t.Errorf("Reason() = %q", r.Reason())
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{`Her er svaret: {"a":1} håber det hjælper`, `{"a":1}`, true},
		{`ingen json`, "", false},
		{`} omvendt {`, "", false},
	}
	for _, tc := range tests {
		got, ok := ExtractJSONObject(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ExtractJSONObject(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
