package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core taxonomy. Callers classify with errors.Is and
// the API layer maps each kind to a stable machine-readable code.
var (
	// ErrValidation covers bad inbound data, e.g. an engagement identifier
	// that does not resolve at registration. Terminal, not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an account or its role profile is absent.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when the external scoring model is
	// unreachable, times out, or returns an error payload. Previously
	// persisted state is untouched; safe to retry.
	ErrUpstreamUnavailable = errors.New("scoring model unavailable")

	// ErrConflict is surfaced when per-account serialization is violated.
	ErrConflict = errors.New("concurrent update conflict")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Upstreamf wraps ErrUpstreamUnavailable with a formatted detail message.
func Upstreamf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUpstreamUnavailable}, args...)...)
}

// ErrorKind returns the stable machine-readable kind for err, or "internal"
// if the error does not belong to the taxonomy.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrConflict):
		return "concurrency_conflict"
	default:
		return "internal"
	}
}
