package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"security", &SecurityViolationError{Path: "x", Reason: "traversal"}, http.StatusForbidden},
		{"not found", &NotFoundError{Path: "x"}, http.StatusNotFound},
		{"malformed", &MalformedInputError{Path: "%zz", Reason: "bad escape"}, http.StatusBadRequest},
		{"internal", &InternalError{Op: "render", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("read doc: %w", &NotFoundError{Path: "x"}), http.StatusNotFound},
		{"plain", errors.New("whatever"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestSentinels(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &SecurityViolationError{Path: "../etc", Reason: "traversal"})
	if !errors.Is(err, ErrSecurityViolation) {
		t.Error("expected errors.Is to match ErrSecurityViolation")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("security violation must not match ErrNotFound")
	}
}

func TestInternal_KeepsTaxonomy(t *testing.T) {
	nf := &NotFoundError{Path: "a.md"}
	if got := Internal("read", nf); got != nf {
		t.Errorf("expected taxonomy error to pass through, got %v", got)
	}

	err := Internal("render markdown", errors.New("bad input"))
	if !errors.Is(err, ErrInternal) {
		t.Errorf("expected internal error, got %v", err)
	}
	if err.Error() != "render markdown: bad input" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
