package tokengate

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// FromRequest extracts and decodes the token carried by r without going
// through the middleware. Handlers that want the claims as a typed input
// rather than context data use this directly. A nil extractor defaults to
// AuthHeaderTokenExtractor.
func FromRequest(d *Decoder, r *http.Request, extract TokenExtractor) (*DecodedToken, error) {
	if extract == nil {
		extract = AuthHeaderTokenExtractor
	}

	raw, err := extract(r)
	if err != nil {
		return nil, fmt.Errorf("error extracting token: %w", err)
	}
	if raw == "" {
		return nil, ErrTokenMissing
	}

	return d.Decode(r.Context(), raw)
}

// ClaimsFromRequest is FromRequest narrowed to the claims payload, asserted
// to the type the decoder's claims factory produces.
//
// Example:
//
//	decoder, _ := tokengate.NewDecoder(keys,
//	    tokengate.WithClaimsFunc(func() jwt.Claims { return &AppClaims{} }),
//	)
//
//	func handle(w http.ResponseWriter, r *http.Request) {
//	    claims, err := tokengate.ClaimsFromRequest[*AppClaims](decoder, r)
//	    ...
//	}
func ClaimsFromRequest[T jwt.Claims](d *Decoder, r *http.Request) (T, error) {
	var zero T

	token, err := FromRequest(d, r, nil)
	if err != nil {
		return zero, err
	}

	claims, ok := token.Claims.(T)
	if !ok {
		return zero, fmt.Errorf("claims have type %T, not the requested type", token.Claims)
	}

	return claims, nil
}
