package tokengate

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Middleware is the request-interception pipeline stage. One instance
// serves many concurrent requests: it extracts a token, decodes it against
// the key set, runs the authorization decision, and either forwards the
// request downstream or rejects it without invoking downstream.
type Middleware struct {
	keys         *KeySet
	decoder      *Decoder
	extractor    TokenExtractor
	authorize    AuthorizationFunc
	errorHandler ErrorHandler
	claimsFunc   func() jwt.Claims

	injectClaims        bool
	credentialsOptional bool
	validateOnOptions   bool
	exclude             func(r *http.Request) bool

	logger  Logger
	metrics Metrics
	tracer  Tracer
}

// SingleOwnerHandler is implemented by downstream handlers that carry
// per-call readiness state and must not serve two overlapping requests.
// Before forwarding to such a handler, the middleware takes the held handle
// and installs a fresh clone in its place, so the pipeline stage is ready
// for the next request while the taken handle serves exactly one.
//
// Plain http.Handler values are expected to be safe for concurrent use and
// are shared across requests without cloning.
type SingleOwnerHandler interface {
	http.Handler
	Clone() http.Handler
}

// New constructs a Middleware around the given key set.
//
// Example:
//
//	keys, err := tokengate.NewKeySet([]any{oldKey, newKey}, tokengate.DefaultRuleset())
//	if err != nil {
//	    log.Fatalf("failed to build key set: %v", err)
//	}
//	m, err := tokengate.New(keys,
//	    tokengate.WithAuthorization(tokengate.Predicate(isAdmin)),
//	)
func New(keys *KeySet, opts ...Option) (*Middleware, error) {
	if keys == nil {
		return nil, ErrKeySetNil
	}

	m := &Middleware{
		keys:              keys,
		extractor:         AuthHeaderTokenExtractor,
		authorize:         AllowAll,
		errorHandler:      DefaultErrorHandler,
		validateOnOptions: true,
		metrics:           &NoopMetrics{},
		tracer:            &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	decoderOpts := []DecoderOption{}
	if m.claimsFunc != nil {
		decoderOpts = append(decoderOpts, WithClaimsFunc(m.claimsFunc))
	}
	if m.logger != nil {
		decoderOpts = append(decoderOpts, WithDecoderLogger(m.logger))
	}
	decoder, err := NewDecoder(keys, decoderOpts...)
	if err != nil {
		return nil, err
	}
	m.decoder = decoder

	return m, nil
}

// CheckToken decodes and validates a raw token string. This is the
// transport-agnostic core shared by CheckJWT and the gRPC interceptor:
//   - empty token with optional credentials returns (nil, nil)
//   - empty token otherwise returns ErrTokenMissing
//   - a failed decode returns an error matching ErrTokenInvalid
func (m *Middleware) CheckToken(ctx context.Context, token string) (*DecodedToken, error) {
	if token == "" {
		if m.credentialsOptional {
			if m.logger != nil {
				m.logger.Debugf("no token provided, but credentials are optional")
			}
			return nil, nil
		}
		return nil, ErrTokenMissing
	}

	span := m.tracer.StartSpan("tokengate.validate")
	defer span.Finish()

	start := time.Now()
	decoded, err := m.decoder.Decode(ctx, token)
	elapsed := time.Since(start)

	m.metrics.ObserveHistogram("tokengate_validation_seconds", elapsed.Seconds(), nil)

	if err != nil {
		span.SetTag("outcome", "invalid")
		if m.logger != nil {
			m.logger.Warnf("token validation failed after %s: %v", elapsed, err)
		}
		return nil, err
	}

	span.SetTag("outcome", "valid")
	if m.logger != nil {
		m.logger.Debugf("token validated in %s", elapsed)
	}

	return decoded, nil
}

// Authorize runs the configured authorization decision against a decoded
// token. Transport adapters that cannot reuse CheckJWT call this after
// CheckToken.
func (m *Middleware) Authorize(ctx context.Context, token *DecodedToken) Decision {
	return m.authorize(ctx, token)
}

// CheckJWT wraps next with the authentication gate. Every stage before the
// forward is synchronous and non-blocking, so rejection latency stays
// independent of downstream load. The forward itself inherits the request
// context; cancelling the request cancels the downstream handler.
func (m *Middleware) CheckJWT(next http.Handler) http.Handler {
	fwd := &forwarder{h: next}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := &requestState{}

		if m.exclude != nil && m.exclude(r) {
			if m.logger != nil {
				m.logger.Debugf("skipping validation for excluded URL %s", r.URL.Path)
			}
			m.forward(fwd, state, w, r)
			return
		}
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			m.forward(fwd, state, w, r)
			return
		}

		token, err := m.extractor(r)
		if err != nil {
			state.reject()
			m.metrics.IncCounter("tokengate_requests_total", map[string]string{"outcome": "rejected"})
			m.errorHandler(w, r, fmt.Errorf("error extracting token: %w", err))
			return
		}

		decoded, err := m.CheckToken(r.Context(), token)
		if err != nil {
			state.reject()
			m.metrics.IncCounter("tokengate_requests_total", map[string]string{"outcome": "rejected"})
			m.errorHandler(w, r, err)
			return
		}

		// Credentials optional and none provided: forward without claims.
		if decoded == nil {
			m.forward(fwd, state, w, r)
			return
		}

		if decision := m.authorize(r.Context(), decoded); !decision.Allowed() {
			state.reject()
			m.metrics.IncCounter("tokengate_requests_total", map[string]string{"outcome": "denied"})
			if m.logger != nil {
				m.logger.Debugf("authorization denied for %s %s", r.Method, r.URL.Path)
			}
			decision.respond(w, r)
			return
		}

		if m.injectClaims {
			r = r.Clone(SetClaims(r.Context(), decoded))
		}
		m.forward(fwd, state, w, r)
	})
}

func (m *Middleware) forward(fwd *forwarder, state *requestState, w http.ResponseWriter, r *http.Request) {
	state.forward()
	m.metrics.IncCounter("tokengate_requests_total", map[string]string{"outcome": "allowed"})
	fwd.acquire().ServeHTTP(w, r)
	state.complete()
}

// forwarder holds the current downstream handle for one wrapped handler.
// The mutex bounds only the take-and-swap, never the forwarded call.
type forwarder struct {
	mu sync.Mutex
	h  http.Handler
}

// acquire returns a handle the caller may drive for exactly one request.
// Single-owner handles are replaced with a fresh clone before the taken one
// is served, so overlapping requests never drive the same instance.
func (f *forwarder) acquire() http.Handler {
	f.mu.Lock()
	defer f.mu.Unlock()

	taken := f.h
	if single, ok := taken.(SingleOwnerHandler); ok {
		f.h = single.Clone()
	}
	return taken
}
