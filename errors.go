package xfind

import "github.com/kailas-cloud/xfind/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration  = domain.ErrConfiguration
	ErrNotFound       = domain.ErrNotFound
	ErrBackend        = domain.ErrBackend
	ErrMassAssignment = domain.ErrMassAssignment
)

// Typed errors. Use errors.As() to inspect the failing query.
type (
	NotFoundError = domain.NotFoundError
	BackendError  = domain.BackendError
)
