package echohandler

import (
	"github.com/labstack/echo/v4"
	"github.com/tokengate/tokengate"
)

// Option is a function that configures the echo adapter.
type Option func(*config)

// WithErrorHandler sets an echo-flavored rejection handler.
func WithErrorHandler(handler func(echo.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the echo context key claims are stored under.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}

// WithOpaqueErrors translates downstream handler errors into a uniform
// internal-error response instead of returning them to echo.
func WithOpaqueErrors() Option {
	return func(cfg *config) {
		cfg.opaque = true
	}
}

// WithGateOptions forwards options to the underlying middleware.
func WithGateOptions(opts ...tokengate.Option) Option {
	return func(cfg *config) {
		cfg.gateOpts = append(cfg.gateOpts, opts...)
	}
}
