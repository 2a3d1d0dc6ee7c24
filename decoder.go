package tokengate

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Header is the decoded token header.
type Header struct {
	Algorithm string
	KeyID     string
	Type      string
}

// DecodedToken is the transient result of a successful decode: the token
// header plus the claims payload in the shape requested by the claims
// factory. It is handed to the authorization decision and, when context
// injection is enabled, to downstream handlers. It is never persisted.
type DecodedToken struct {
	Header Header
	Claims jwt.Claims
}

// Decoder verifies raw tokens against a KeySet. Keys are tried in
// construction order and the first success wins; when every key fails, the
// error from the last key attempted is surfaced. Callers should not rely on
// that error identifying which key nearly succeeded.
type Decoder struct {
	keys   *KeySet
	parser *jwt.Parser
	claims func() jwt.Claims
	logger Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder) error

// WithClaimsFunc sets the factory producing the claims value each decode
// attempt deserializes into. Use it to receive claims as an application
// type; the type usually embeds jwt.RegisteredClaims.
//
// Default: a fresh jwt.MapClaims per attempt.
func WithClaimsFunc(f func() jwt.Claims) DecoderOption {
	return func(d *Decoder) error {
		if f == nil {
			return errors.New("claims func cannot be nil")
		}
		d.claims = f
		return nil
	}
}

// WithDecoderLogger sets an optional logger. When configured, every per-key
// verification failure is logged at debug level, which is the only place
// the intermediate failures of a multi-key decode remain observable.
func WithDecoderLogger(logger Logger) DecoderOption {
	return func(d *Decoder) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		d.logger = logger
		return nil
	}
}

// NewDecoder constructs a Decoder for the given key set.
func NewDecoder(keys *KeySet, opts ...DecoderOption) (*Decoder, error) {
	if keys == nil {
		return nil, ErrKeySetNil
	}

	d := &Decoder{
		keys:   keys,
		parser: newParser(keys.rules),
		claims: func() jwt.Claims { return jwt.MapClaims{} },
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func newParser(rules Ruleset) *jwt.Parser {
	algs := rules.Algorithms
	if len(algs) == 0 {
		algs = make([]SignatureAlgorithm, 0, len(allowedSigningAlgorithms))
		for alg := range allowedSigningAlgorithms {
			algs = append(algs, alg)
		}
	}
	methods := make([]string, len(algs))
	for i, alg := range algs {
		methods[i] = string(alg)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
	}
	if rules.RequireExpiry {
		opts = append(opts, jwt.WithExpirationRequired())
	}
	if rules.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(rules.Issuer))
	}
	if rules.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(rules.Leeway))
	}

	return jwt.NewParser(opts...)
}

// Decode verifies the raw token with each key in order and returns the
// decoded header and claims on the first success. When every key fails, the
// returned error wraps the last key's failure and matches ErrTokenInvalid.
//
// Decode never blocks on I/O; it is pure CPU-bound verification work.
func (d *Decoder) Decode(ctx context.Context, raw string) (*DecodedToken, error) {
	var lastErr error

	for i, key := range d.keys.keys {
		claims := d.claims()
		token, err := d.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err == nil {
			err = checkAudience(token.Claims, d.keys.rules.Audiences)
		}
		if err != nil {
			lastErr = err
			if d.logger != nil {
				d.logger.Debugf("verification with key %d failed: %v", i, err)
			}
			continue
		}

		return &DecodedToken{
			Header: headerOf(token),
			Claims: token.Claims,
		}, nil
	}

	return nil, &invalidError{details: lastErr}
}

// checkAudience requires the token's aud claim to contain at least one of
// the expected audiences. The parser cannot express a match-any list, so
// the check runs after parsing.
func checkAudience(claims jwt.Claims, expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	audience, err := claims.GetAudience()
	if err != nil {
		return fmt.Errorf("could not read audience claim: %w", err)
	}
	for _, want := range expected {
		for _, got := range audience {
			if got == want {
				return nil
			}
		}
	}

	return jwt.ErrTokenInvalidAudience
}

func headerOf(token *jwt.Token) Header {
	h := Header{}
	if alg, ok := token.Header["alg"].(string); ok {
		h.Algorithm = alg
	}
	if kid, ok := token.Header["kid"].(string); ok {
		h.KeyID = kid
	}
	if typ, ok := token.Header["typ"].(string); ok {
		h.Type = typ
	}
	return h
}
