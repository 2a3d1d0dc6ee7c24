// Package ginhandler adapts the tokengate middleware to gin.
package ginhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokengate/tokengate"
)

// DefaultClaimsKey is the gin context key claims are stored under.
const DefaultClaimsKey = "token"

var (
	ErrMissingClaims = errors.New("no claims found in context")
	ErrInvalidClaims = errors.New("invalid claims type")
)

type config struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
	gateOpts     []tokengate.Option
}

// New creates a gin middleware guarding handlers with the token gate. The
// decoded token is stored in the gin context under the configured claims key
// in addition to any context injection configured on the gate itself.
func New(keys *tokengate.KeySet, opts ...Option) (gin.HandlerFunc, error) {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	gateOpts := append([]tokengate.Option{
		tokengate.WithContextInjection(true),
		tokengate.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(gin.ContextKey).(*gin.Context)
			if !ok || c == nil {
				tokengate.DefaultErrorHandler(w, r, err)
				return
			}
			cfg.errorHandler(c, err)
		}),
	}, cfg.gateOpts...)

	gate, err := tokengate.New(keys, gateOpts...)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		rejected := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			rejected = false
			c.Request = r

			if token, err := tokengate.GetToken(r.Context()); err == nil {
				c.Set(cfg.contextKey, token)
			}

			c.Next()
		}

		// The gate only sees net/http values, so the gin context rides
		// along in the request context for the error handler to recover.
		request := c.Request.WithContext(context.WithValue(c.Request.Context(), gin.ContextKey, c))
		gate.CheckJWT(handler).ServeHTTP(c.Writer, request)

		if rejected {
			c.Abort()
		}
	}, nil
}

func defaultErrorHandler(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tokengate.ErrTokenMissing), errors.Is(err, tokengate.ErrTokenInvalid):
		c.AbortWithStatus(http.StatusUnauthorized)
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// GetToken extracts the decoded token from the gin context.
func GetToken(c *gin.Context, contextKey string) (*tokengate.DecodedToken, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	token, ok := claims.(*tokengate.DecodedToken)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return token, nil
}
