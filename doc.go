// Package tokengate is an authentication gate for net/http pipelines. It
// verifies a bearer token attached to an incoming request, decodes its
// claims, runs an optional application-defined authorization decision, and
// either forwards the request downstream or rejects it without invoking the
// downstream handler.
//
// The verification engine tries each key of an ordered, immutable KeySet in
// construction order and short-circuits on the first success, which makes
// hot key rotation a matter of constructing the set with both the old and
// the new key. When every key fails, the error of the last key attempted is
// surfaced.
//
// Basic usage:
//
//	keys := tokengate.SingleKey([]byte("secret"))
//
//	m, err := tokengate.New(keys)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
//
//	http.ListenAndServe(":8080", m.CheckJWT(handler))
//
// Claims can be decoded into an application type and made available to
// downstream handlers through the request context:
//
//	type AppClaims struct {
//	    Roles []string `json:"roles"`
//	    jwt.RegisteredClaims
//	}
//
//	m, err := tokengate.New(keys,
//	    tokengate.WithClaims(func() jwt.Claims { return &AppClaims{} }),
//	    tokengate.WithAuthorization(tokengate.Predicate(func(t *tokengate.DecodedToken) bool {
//	        return slices.Contains(t.Claims.(*AppClaims).Roles, "admin")
//	    })),
//	    tokengate.WithContextInjection(true),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    claims, err := tokengate.GetClaims[*AppClaims](r.Context())
//	    ...
//	}
//
// By default a missing token, a failed decode and a denied authorization
// all answer 401 with an empty body, so a caller cannot tell which check
// failed. Supply a custom ErrorHandler or a Check authorization function to
// differentiate responses.
//
// Adapters for gin, echo and gRPC live in framework/gin, framework/echo and
// integrations/grpc.
package tokengate
