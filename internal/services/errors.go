package services

import (
	"errors"
	"fmt"
)

// Sentinel errors handlers translate to HTTP statuses. Wrapped with %w so
// callers can errors.Is regardless of the added context.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError aggregates every field violation of a payload, keyed by
// field path. It always maps to HTTP 422.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}
