package ginhandler

import (
	"github.com/gin-gonic/gin"
	"github.com/tokengate/tokengate"
)

// Option is a function that configures the gin adapter.
type Option func(*config)

// WithErrorHandler sets a gin-flavored rejection handler.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the gin context key claims are stored under.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}

// WithGateOptions forwards options to the underlying middleware, for
// example tokengate.WithAuthorization or tokengate.WithClaims.
func WithGateOptions(opts ...tokengate.Option) Option {
	return func(cfg *config) {
		cfg.gateOpts = append(cfg.gateOpts, opts...)
	}
}
