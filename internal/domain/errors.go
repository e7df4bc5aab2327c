package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that knows which status code it maps to.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// SecurityViolationError means a request path escapes its allowed prefix
	// or contains traversal. Raised before any filesystem access.
	SecurityViolationError struct {
		Path   string
		Reason string
	}

	// NotFoundError means the path is allowed but nothing readable is there.
	NotFoundError struct {
		Path string
	}

	// MalformedInputError means the request path could not be decoded.
	MalformedInputError struct {
		Path   string
		Reason string
	}

	// InternalError wraps unexpected I/O or transform failures.
	InternalError struct {
		Op  string
		Err error
	}
)

func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("invalid file path %q: %s", e.Path, e.Reason)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed path %q: %s", e.Path, e.Reason)
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *SecurityViolationError) StatusCode() int { return http.StatusForbidden }
func (e *NotFoundError) StatusCode() int          { return http.StatusNotFound }
func (e *MalformedInputError) StatusCode() int    { return http.StatusBadRequest }
func (e *InternalError) StatusCode() int          { return http.StatusInternalServerError }

// Sentinels for errors.Is checks.
var (
	ErrSecurityViolation = errors.New("security violation")
	ErrNotFound          = errors.New("not found")
	ErrMalformedInput    = errors.New("malformed input")
	ErrInternal          = errors.New("internal failure")
)

func (e *SecurityViolationError) Is(target error) bool { return target == ErrSecurityViolation }
func (e *NotFoundError) Is(target error) bool          { return target == ErrNotFound }
func (e *MalformedInputError) Is(target error) bool    { return target == ErrMalformedInput }
func (e *InternalError) Is(target error) bool          { return target == ErrInternal }

// StatusFor returns the HTTP status for err. Errors outside the taxonomy are
// internal failures.
func StatusFor(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// Internal wraps err as an InternalError unless it already belongs to the
// taxonomy.
func Internal(op string, err error) error {
	var he HTTPError
	if errors.As(err, &he) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}
