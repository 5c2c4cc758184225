package blog

import (
	"errors"
	"fmt"
)

// Sentinel errors used for simple equality-style checks. Typed errors below
// unwrap to these so callers can match with errors.Is regardless of which
// layer produced the error.
var (
	ErrNotFound    = errors.New("post not found")
	ErrInvalidSlug = errors.New("invalid slug")
	ErrParse       = errors.New("unable to parse front matter")
	ErrConflict    = errors.New("revision conflict")
	ErrValidation  = errors.New("invalid input")
)

// NotFoundError carries the missing slug for callers that need richer
// diagnostic information than the bare sentinel.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("post not found: %q", e.Slug) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError constructs a typed NotFoundError.
func NewNotFoundError(slug string) error {
	return &NotFoundError{Slug: slug}
}

// InvalidSlugError reports a slug that failed the safety pattern. It is always
// raised before any file or network access is attempted.
type InvalidSlugError struct {
	Slug   string
	Reason string
}

func (e *InvalidSlugError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid slug: %q", e.Slug)
	}
	return fmt.Sprintf("invalid slug %q: %s", e.Slug, e.Reason)
}

func (e *InvalidSlugError) Unwrap() error { return ErrInvalidSlug }

// ValidationError represents malformed or missing required publish input. It
// never reaches a backend.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Msg)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for the named input field.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ParseError reports a malformed front matter block in a stored document.
// Get propagates it as a hard error; the listing layer contains it per entry.
type ParseError struct {
	Slug string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("parse front matter: %s", e.Msg)
	}
	return fmt.Sprintf("parse front matter for %q: %s", e.Slug, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ConflictError reports an optimistic revision check rejected by the backend.
// There is no automatic retry or merge; callers resolve manually.
type ConflictError struct {
	Slug     string
	Expected string
	Actual   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("revision conflict for %q: expected %s, backend has %s",
		e.Slug, revOrNone(e.Expected), revOrNone(e.Actual))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func revOrNone(rev string) string {
	if rev == "" {
		return "(none)"
	}
	return rev
}

// BackendError wraps errors coming from a storage backend (filesystem or the
// remote content API). StatusCode is the HTTP status when the backend is
// remote, zero otherwise.
type BackendError struct {
	Backend    string // "fs", "github", "memory"
	Op         string // operation, e.g. "Put", "List"
	StatusCode int
	Cause      error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status=%d: %v", e.Backend, e.Op, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// NewBackendError constructs a *BackendError describing an operation against a
// backend.
func NewBackendError(backend, op string, status int, cause error) error {
	return &BackendError{Backend: backend, Op: op, StatusCode: status, Cause: cause}
}

// IsNotFound reports whether err is (or wraps) a missing-post condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is (or wraps) a revision conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	if err == nil {
		return false
	}
	var be *BackendError
	return errors.As(err, &be)
}
