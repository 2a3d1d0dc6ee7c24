package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts bearer tokens from gRPC request metadata. An
// empty string means no token was presented; errors are reserved for
// malformed credentials.
type TokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor extracts the token from the "authorization"
// metadata key, expecting the "Bearer <token>" format.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor
// only checks the lowercase "authorization" key.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, no token (not an error).
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return "", nil
	}
	if len(authHeaders) > 1 {
		return "", ErrMultipleAuthHeaders
	}

	token, ok := strings.CutPrefix(authHeaders[0], "Bearer ")
	if !ok {
		return "", ErrInvalidAuthFormat
	}

	return token, nil
}
