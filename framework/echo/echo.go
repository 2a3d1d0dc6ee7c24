// Package echohandler adapts the tokengate middleware to echo.
package echohandler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tokengate/tokengate"
)

// DefaultClaimsKey is the echo context key claims are stored under.
const DefaultClaimsKey = "token"

type config struct {
	errorHandler func(echo.Context, error)
	contextKey   string
	opaque       bool
	gateOpts     []tokengate.Option
}

// New creates an echo middleware guarding handlers with the token gate.
//
// Downstream handler errors are passed through to echo unchanged by
// default; WithOpaqueErrors translates them into a uniform internal-error
// response instead, so admitted requests never leak handler error shapes.
func New(keys *tokengate.KeySet, opts ...Option) (echo.MiddlewareFunc, error) {
	cfg := &config{
		contextKey: DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	gateOpts := append([]tokengate.Option{
		tokengate.WithContextInjection(true),
	}, cfg.gateOpts...)
	if cfg.errorHandler != nil {
		gateOpts = append(gateOpts, tokengate.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			e := echo.New()
			cfg.errorHandler(e.NewContext(r, w), err)
		}))
	}

	gate, err := tokengate.New(keys, gateOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rejected := true
			var downstreamErr error

			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				rejected = false
				c.SetRequest(r)

				if token, err := tokengate.GetToken(r.Context()); err == nil {
					c.Set(cfg.contextKey, token)
				}

				downstreamErr = next(c)
			}

			gate.CheckJWT(handler).ServeHTTP(c.Response(), c.Request())

			if rejected || downstreamErr == nil {
				return nil
			}
			if cfg.opaque {
				return c.NoContent(http.StatusInternalServerError)
			}
			return downstreamErr
		}
	}, nil
}

// GetToken extracts the decoded token from the echo context.
func GetToken(c echo.Context, contextKey string) (*tokengate.DecodedToken, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}

	token, ok := c.Get(contextKey).(*tokengate.DecodedToken)
	return token, ok
}
