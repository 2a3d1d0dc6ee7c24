package tokengate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func Test_Decision(t *testing.T) {
	t.Run("the zero value denies with the default unauthorized response", func(t *testing.T) {
		var decision Decision
		assert.False(t, decision.Allowed())

		recorder := httptest.NewRecorder()
		decision.respond(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("Deny writes the given status and body", func(t *testing.T) {
		decision := Deny(http.StatusForbidden, []byte(`{"message":"nope"}`))
		assert.False(t, decision.Allowed())

		recorder := httptest.NewRecorder()
		decision.respond(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, `{"message":"nope"}`, recorder.Body.String())
	})

	t.Run("Allow admits", func(t *testing.T) {
		assert.True(t, Allow().Allowed())
	})
}

func Test_AllowAll(t *testing.T) {
	assert.True(t, AllowAll(context.Background(), &DecodedToken{}).Allowed())
	assert.True(t, AllowAll(context.Background(), nil).Allowed())
}

func Test_Predicate(t *testing.T) {
	token := &DecodedToken{Claims: jwt.MapClaims{"sub": "alice"}}

	allow := Predicate(func(token *DecodedToken) bool {
		return token.Claims.(jwt.MapClaims)["sub"] == "alice"
	})
	deny := Predicate(func(*DecodedToken) bool { return false })

	assert.True(t, allow(context.Background(), token).Allowed())
	assert.False(t, deny(context.Background(), token).Allowed())
}

func Test_Check(t *testing.T) {
	token := &DecodedToken{Claims: jwt.MapClaims{}}

	t.Run("nil error admits", func(t *testing.T) {
		decision := Check(func(*DecodedToken) error { return nil })(context.Background(), token)
		assert.True(t, decision.Allowed())
	})

	t.Run("a plain error denies with the default response", func(t *testing.T) {
		decision := Check(func(*DecodedToken) error {
			return errors.New("not allowed")
		})(context.Background(), token)
		assert.False(t, decision.Allowed())

		recorder := httptest.NewRecorder()
		decision.respond(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("a rejection error supplies the response", func(t *testing.T) {
		decision := Check(func(*DecodedToken) error {
			return fmt.Errorf("checking roles: %w", &RejectionError{
				Status: http.StatusPaymentRequired,
				Body:   []byte("pay up"),
			})
		})(context.Background(), token)
		assert.False(t, decision.Allowed())

		recorder := httptest.NewRecorder()
		decision.respond(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusPaymentRequired, recorder.Code)
		assert.Equal(t, "pay up", recorder.Body.String())
	})
}
