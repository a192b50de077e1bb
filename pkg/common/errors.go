package common

import (
	"errors"
	"fmt"
)

// Error sentinels for the engine and store boundary. Callers classify
// failures with errors.Is; the wrapped message carries the collection and
// entity context needed to correct the request.
var (
	// ErrNotFound marks a missing collection, entity, or path endpoint.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks an out-of-range parameter rejected at the
	// request boundary. The algorithms themselves trust their inputs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable marks a failure of the external store. It is
	// propagated verbatim; nothing in the engine retries.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NotFoundf wraps ErrNotFound with formatted context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgumentf wraps ErrInvalidArgument with formatted context.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// StoreUnavailablef wraps ErrStoreUnavailable with formatted context,
// typically including the underlying cause.
func StoreUnavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, fmt.Sprintf(format, args...))
}
