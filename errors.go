package tokengate

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyKeySet is returned when a key set is constructed with no keys.
	// This is a construction-time error and should abort startup.
	ErrEmptyKeySet = errors.New("key set must contain at least one key")

	// ErrTokenMissing is returned when no token is found on the request.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenInvalid is returned when a token fails signature verification
	// or claim validation against every key in the set.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from
	// a request context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// ErrorHandler is called when an error occurs while checking a request.
// The err can be checked against ErrTokenMissing and ErrTokenInvalid for
// specific cases. If you implement your own ErrorHandler you MUST take the
// error types into consideration, as not responding to them properly could
// result in the middleware not functioning as intended.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler writes 401 with an empty body for a missing or invalid
// token and 500 for anything else. Missing and invalid tokens are
// deliberately indistinguishable from the outside so that a caller cannot
// probe which check failed.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTokenMissing), errors.Is(err, ErrTokenInvalid):
		w.WriteHeader(http.StatusUnauthorized)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// invalidError wraps a decode failure with the concrete error
// ErrTokenInvalid. We do not expose this publicly because the interface
// methods of Is and Unwrap should give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to ErrTokenInvalid.
func (e *invalidError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// Error returns a string representation of the error.
func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenInvalid, e.details)
}

// Unwrap allows the error to support equality to the underlying error and
// not just ErrTokenInvalid.
func (e *invalidError) Unwrap() error {
	return e.details
}

// RejectionError carries an arbitrary rejection response. When a Check
// authorization function returns one, the middleware answers with the given
// status and body instead of the fixed unauthorized response.
type RejectionError struct {
	Status int
	Body   []byte
}

// Error returns a string representation of the error.
func (e *RejectionError) Error() string {
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

// ServeHTTP writes the rejection response.
func (e *RejectionError) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(e.Status)
	if len(e.Body) > 0 {
		_, _ = w.Write(e.Body)
	}
}
