package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals an invalid builder or paginator configuration.
	// Raised while the query is being built, before any backend call.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrNotFound signals that a lookup matched no documents.
	ErrNotFound = errors.New("not found")
	// ErrBackend signals a failure reported by the search backend.
	ErrBackend = errors.New("search backend error")
	// ErrMassAssignment signals an attribute rejected by a totally guarded model.
	ErrMassAssignment = errors.New("mass assignment")
)

// NotFoundError wraps ErrNotFound with the query or key that matched nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no documents match %q", ErrNotFound.Error(), e.Query)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not found error for the given query text.
func NewNotFound(query string) error {
	return &NotFoundError{Query: query}
}

// BackendError annotates a backend failure with the query that was executing.
// Both ErrBackend and the original error are reachable through errors.Is/As.
type BackendError struct {
	Query string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s (query %q): %v", ErrBackend.Error(), e.Query, e.Err)
}

func (e *BackendError) Unwrap() []error { return []error{ErrBackend, e.Err} }

// NewBackendError wraps err once. An error that already is a BackendError is
// returned unchanged.
func NewBackendError(query string, err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Query: query, Err: err}
}

// Configf builds an ErrConfiguration error with a formatted reason.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
