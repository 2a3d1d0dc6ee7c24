package tokengate

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"time"
)

// Signature algorithms accepted by a Ruleset allow-list.
const (
	EdDSA = SignatureAlgorithm("EdDSA")
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	ES256 = SignatureAlgorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = SignatureAlgorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = SignatureAlgorithm("ES512") // ECDSA using P-521 and SHA-512
	PS256 = SignatureAlgorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = SignatureAlgorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = SignatureAlgorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
)

// SignatureAlgorithm is a signature algorithm.
type SignatureAlgorithm string

var allowedSigningAlgorithms = map[SignatureAlgorithm]bool{
	EdDSA: true,
	HS256: true,
	HS384: true,
	HS512: true,
	RS256: true,
	RS384: true,
	RS512: true,
	ES256: true,
	ES384: true,
	ES512: true,
	PS256: true,
	PS384: true,
	PS512: true,
}

// Ruleset is the set of claim checks shared by every key in a KeySet and
// applied after signature verification.
type Ruleset struct {
	// Algorithms is the allow-list of signature algorithms tokens may use.
	// Empty means every supported algorithm is permitted.
	Algorithms []SignatureAlgorithm

	// RequireExpiry rejects tokens that carry no exp claim.
	RequireExpiry bool

	// Issuer, when non-empty, must match the token's iss claim.
	Issuer string

	// Audiences, when non-empty, requires the token's aud claim to contain
	// at least one of the listed values.
	Audiences []string

	// Leeway is the clock skew tolerated when checking time-based claims.
	Leeway time.Duration
}

// DefaultRuleset returns the standard checks: expiry enforced, every
// supported algorithm permitted, no issuer or audience constraint.
func DefaultRuleset() Ruleset {
	return Ruleset{RequireExpiry: true}
}

// KeySet is an ordered, immutable collection of verification keys sharing
// one Ruleset. It is safe to share across concurrent decode calls without
// synchronization.
type KeySet struct {
	keys  []any
	rules Ruleset
}

// NewKeySet constructs a KeySet from the given keys and rule set. The key
// order is significant for performance only: keys are tried in order and
// decoding short-circuits on the first success, so put frequently valid
// keys first. An empty key list is a construction error.
func NewKeySet(keys []any, rules Ruleset) (*KeySet, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeySet
	}
	for _, alg := range rules.Algorithms {
		if !allowedSigningAlgorithms[alg] {
			return nil, fmt.Errorf("unsupported signature algorithm: %s", alg)
		}
	}

	s := &KeySet{
		keys:  make([]any, len(keys)),
		rules: rules,
	}
	copy(s.keys, keys)

	return s, nil
}

// SingleKey constructs a KeySet holding one key with the default rule set.
// The algorithm allow-list is inferred from the key type.
func SingleKey(key any) *KeySet {
	rules := DefaultRuleset()
	rules.Algorithms = algorithmsForKey(key)

	return &KeySet{
		keys:  []any{key},
		rules: rules,
	}
}

// Keys returns the verification keys in construction order.
func (s *KeySet) Keys() []any {
	keys := make([]any, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Rules returns the shared claim-validation rule set.
func (s *KeySet) Rules() Ruleset {
	return s.rules
}

// algorithmsForKey narrows the allow-list to the algorithm family the key
// material can verify. Unknown key types leave the list open.
func algorithmsForKey(key any) []SignatureAlgorithm {
	switch key.(type) {
	case []byte:
		return []SignatureAlgorithm{HS256, HS384, HS512}
	case *rsa.PublicKey:
		return []SignatureAlgorithm{RS256, RS384, RS512, PS256, PS384, PS512}
	case *ecdsa.PublicKey:
		return []SignatureAlgorithm{ES256, ES384, ES512}
	case ed25519.PublicKey:
		return []SignatureAlgorithm{EdDSA}
	default:
		return nil
	}
}
