package tokengate

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// Option configures the Middleware.
// Options return errors to enable validation during construction.
type Option func(*Middleware) error

// Sentinel errors for configuration validation.
var (
	ErrKeySetNil         = errors.New("key set cannot be nil")
	ErrAuthorizationNil  = errors.New("authorization func cannot be nil")
	ErrErrorHandlerNil   = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
	ErrExclusionsEmpty   = errors.New("exclusion URL list cannot be empty")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
	ErrClaimsFuncNil     = errors.New("claims func cannot be nil")
)

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *Middleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.extractor = e
		return nil
	}
}

// WithAuthorization sets the decision run against decoded claims before
// forwarding. See AllowAll, Predicate and Check for built-in strategies.
//
// Default: AllowAll
func WithAuthorization(f AuthorizationFunc) Option {
	return func(m *Middleware) error {
		if f == nil {
			return ErrAuthorizationNil
		}
		m.authorize = f
		return nil
	}
}

// WithClaims sets the factory producing the claims value tokens are decoded
// into, usually an application type embedding jwt.RegisteredClaims.
//
// Default: jwt.MapClaims
func WithClaims(f func() jwt.Claims) Option {
	return func(m *Middleware) error {
		if f == nil {
			return ErrClaimsFuncNil
		}
		m.claimsFunc = f
		return nil
	}
}

// WithContextInjection controls whether the decoded token is copied into the
// request context before forwarding, retrievable with GetClaims. The token
// is shared by reference, not duplicated.
//
// Default: false
func WithContextInjection(enabled bool) Option {
	return func(m *Middleware) error {
		m.injectClaims = enabled
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during token
// validation. See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithCredentialsOptional sets whether credentials are optional.
// If set to true, requests without a token are forwarded without claims.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *Middleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests have their token
// validated.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from validation.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionsEmpty
		}
		m.exclude = func(r *http.Request) bool {
			fullURL := r.URL.String()
			path := r.URL.Path

			for _, exclusion := range exclusions {
				if fullURL == exclusion || path == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithExclusionUrlHandler sets a custom predicate deciding which requests
// skip validation entirely.
func WithExclusionUrlHandler(h func(r *http.Request) bool) Option {
	return func(m *Middleware) error {
		m.exclude = h
		return nil
	}
}

// WithLogger sets an optional logger used throughout the validation flow,
// including per-key decode failures.
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for admission outcomes and validation
// latency.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer producing one span per token validation.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}
