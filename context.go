package tokengate

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const claimsKey contextKey = iota

// SetClaims stores a decoded token in the context. The token is shared by
// reference; the claims payload is not copied.
func SetClaims(ctx context.Context, token *DecodedToken) context.Context {
	return context.WithValue(ctx, claimsKey, token)
}

// GetToken retrieves the decoded token from the context.
func GetToken(ctx context.Context) (*DecodedToken, error) {
	token, ok := ctx.Value(claimsKey).(*DecodedToken)
	if !ok {
		return nil, ErrClaimsNotFound
	}
	return token, nil
}

// GetClaims retrieves the claims payload from the context, asserted to the
// type the decoder's claims factory produces.
//
// Example:
//
//	claims, err := tokengate.GetClaims[*AppClaims](r.Context())
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	token, err := GetToken(ctx)
	if err != nil {
		return zero, err
	}

	claims, ok := token.Claims.(T)
	if !ok {
		return zero, ErrClaimsNotFound
	}

	return claims, nil
}

// HasClaims checks if a decoded token exists in the context without
// retrieving it.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey) != nil
}
