// Package apperr defines the error taxonomy shared by the service, the access
// control layer and the HTTP boundary.  Every domain failure wraps one of the
// sentinel kinds below; anything else is treated as unexpected and rendered
// as a generic 500 by the HTTP error handler.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated covers a missing, malformed or expired token and a
	// token whose subject no longer resolves to a user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is a role mismatch for an authenticated principal.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is a miss on an id-keyed lookup.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a duplicate username or email.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest is malformed or invalid input, including failed logins.
	ErrBadRequest = errors.New("bad request")
)

// Error pairs a sentinel kind with a message that is safe to show clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Status maps err to the HTTP status it surfaces as.  Conflicts are reported
// as 400 to match the public contract of the register endpoint.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err, or "" when err carries
// none (which includes every unexpected error).
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
