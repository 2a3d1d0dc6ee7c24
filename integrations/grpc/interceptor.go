// Package grpc provides token validation interceptors for gRPC servers.
package grpc

import (
	"context"

	"github.com/tokengate/tokengate"
	"google.golang.org/grpc"
)

// Interceptor validates bearer tokens carried in gRPC metadata. It reuses
// the middleware's transport-agnostic CheckToken and Authorize stages; only
// extraction and the rejection representation are gRPC-specific.
type Interceptor struct {
	gate            *tokengate.Middleware
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          tokengate.Logger
	opaque          bool
}

// New creates a gRPC interceptor around an existing middleware instance.
func New(gate *tokengate.Middleware, opts ...Option) (*Interceptor, error) {
	if gate == nil {
		return nil, ErrGateNil
	}

	i := &Interceptor{
		gate:            gate,
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// validates tokens and makes the claims available in the handler context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		validatedCtx, err := i.validateRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		resp, err := handler(validatedCtx, req)
		if err != nil && i.opaque {
			return nil, errInternal
		}
		return resp, err
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// validates tokens and makes the claims available in the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			return handler(srv, ss)
		}

		validatedCtx, err := i.validateRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		err = handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          validatedCtx,
		})
		if err != nil && i.opaque {
			return errInternal
		}
		return err
	}
}

// validateRequest runs extraction, decoding and authorization against the
// incoming context and returns a context carrying the decoded claims.
func (i *Interceptor) validateRequest(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Errorf("failed to extract token for %s: %v", method, err)
		}
		return ctx, i.errorHandler(err)
	}

	decoded, err := i.gate.CheckToken(ctx, token)
	if err != nil {
		if i.logger != nil {
			i.logger.Warnf("token validation failed for %s: %v", method, err)
		}
		return ctx, i.errorHandler(err)
	}

	// Credentials optional and none provided.
	if decoded == nil {
		return ctx, nil
	}

	if decision := i.gate.Authorize(ctx, decoded); !decision.Allowed() {
		if i.logger != nil {
			i.logger.Debugf("authorization denied for %s", method)
		}
		return ctx, errDenied
	}

	return tokengate.SetClaims(ctx, decoded), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the decoded claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
