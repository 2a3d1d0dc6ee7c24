package grpc

import (
	"errors"

	"github.com/tokengate/tokengate"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor which extracts from "authorization"
// metadata.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
func WithLogger(logger tokengate.Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from token validation.
// Methods should be provided in the format: "/package.Service/Method"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}

// WithOpaqueErrors masks downstream handler errors behind a uniform
// internal-error status instead of passing them through unchanged.
func WithOpaqueErrors() Option {
	return func(i *Interceptor) error {
		i.opaque = true
		return nil
	}
}
