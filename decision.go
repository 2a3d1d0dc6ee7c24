package tokengate

import (
	"context"
	"errors"
	"net/http"
)

// Decision is the outcome of an authorization check: either the request is
// allowed through to the downstream handler, or it is denied with a
// rejection response. The zero value denies with the default unauthorized
// response.
type Decision struct {
	allowed bool
	deny    http.Handler
}

// Allow admits the request.
func Allow() Decision {
	return Decision{allowed: true}
}

// Deny rejects the request with the given status code and body.
func Deny(status int, body []byte) Decision {
	return DenyWith(&RejectionError{Status: status, Body: body})
}

// DenyWith rejects the request with an arbitrary response written by h.
func DenyWith(h http.Handler) Decision {
	return Decision{deny: h}
}

// Allowed reports whether the request was admitted.
func (d Decision) Allowed() bool {
	return d.allowed
}

// respond writes the rejection response. A nil handler falls back to the
// fixed unauthorized response.
func (d Decision) respond(w http.ResponseWriter, r *http.Request) {
	if d.deny != nil {
		d.deny.ServeHTTP(w, r)
		return
	}
	w.WriteHeader(http.StatusUnauthorized)
}

// AuthorizationFunc decides whether a decoded token may proceed. It runs
// inline between decode and forward, so it must not block; side effects such
// as counters are fine. Anything that needs I/O belongs in the downstream
// handler, after admission.
type AuthorizationFunc func(ctx context.Context, token *DecodedToken) Decision

// AllowAll admits every request carrying a validly signed token. It is the
// default decision and the right one when a valid signature is the only
// requirement.
func AllowAll(context.Context, *DecodedToken) Decision {
	return Allow()
}

// Predicate adapts a boolean claims check into an AuthorizationFunc. A
// false result maps to the fixed unauthorized rejection.
func Predicate(f func(token *DecodedToken) bool) AuthorizationFunc {
	return func(_ context.Context, token *DecodedToken) Decision {
		if f(token) {
			return Allow()
		}
		return Decision{}
	}
}

// Check adapts an error-returning claims check into an AuthorizationFunc.
// A nil error admits the request. An error carrying a *RejectionError
// supplies the rejection response; any other error maps to the fixed
// unauthorized rejection.
func Check(f func(token *DecodedToken) error) AuthorizationFunc {
	return func(_ context.Context, token *DecodedToken) Decision {
		err := f(token)
		if err == nil {
			return Allow()
		}

		var rejection *RejectionError
		if errors.As(err, &rejection) {
			return DenyWith(rejection)
		}
		return Decision{}
	}
}
