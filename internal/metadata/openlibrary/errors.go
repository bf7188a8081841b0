package openlibrary

import (
	"errors"
	"fmt"
)

// Sentinel errors for Open Library operations.
var (
	ErrNotFound    = errors.New("openlibrary: not found")
	ErrRateLimited = errors.New("openlibrary: rate limited by server")
	ErrBadRequest  = errors.New("openlibrary: bad request")
	ErrServer      = errors.New("openlibrary: server error")
	ErrInvalidISBN = errors.New("openlibrary: invalid ISBN")
	ErrInvalidKey  = errors.New("openlibrary: invalid work key")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search", "work", "authors", "editions"
	Key string // work key or query, if applicable
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("openlibrary %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("openlibrary %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, key string, err error) error {
	return &Error{Op: op, Key: key, Err: err}
}

// retryable reports whether a failed request may succeed if repeated.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrServer):
		return true
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBadRequest):
		return false
	}
	var transport *transportError
	return errors.As(err, &transport)
}

// transportError marks failures below HTTP (dial, reset, timeout).
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }
