package grpc

import (
	"errors"

	"github.com/tokengate/tokengate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrGateNil indicates the interceptor was constructed without a middleware.
	ErrGateNil = errors.New("middleware cannot be nil")

	// ErrMultipleAuthHeaders indicates multiple authorization metadata
	// entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata format is
	// invalid.
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")
)

var (
	errDenied   = status.Error(codes.PermissionDenied, "permission denied")
	errInternal = status.Error(codes.Internal, "internal error")
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps validation errors to gRPC status codes. Missing
// and invalid tokens both map to Unauthenticated with a generic message so
// callers cannot probe which check failed; malformed authorization metadata
// maps to InvalidArgument.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, tokengate.ErrTokenMissing) || errors.Is(err, tokengate.ErrTokenInvalid) {
		return status.Error(codes.Unauthenticated, "invalid or missing token")
	}

	if errors.Is(err, ErrMultipleAuthHeaders) || errors.Is(err, ErrInvalidAuthFormat) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	// Unknown validation errors stay Unauthenticated so token failures do
	// not leak as internal errors.
	return status.Error(codes.Unauthenticated, "invalid or missing token")
}
