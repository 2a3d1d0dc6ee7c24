package tokengate

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Context(t *testing.T) {
	token := &DecodedToken{
		Header: Header{Algorithm: "HS256", Type: "JWT"},
		Claims: jwt.MapClaims{"sub": "alice"},
	}

	t.Run("round trip through the context", func(t *testing.T) {
		ctx := SetClaims(context.Background(), token)

		got, err := GetToken(ctx)
		require.NoError(t, err)
		assert.Same(t, token, got)
		assert.True(t, HasClaims(ctx))
	})

	t.Run("an empty context holds no claims", func(t *testing.T) {
		got, err := GetToken(context.Background())
		assert.ErrorIs(t, err, ErrClaimsNotFound)
		assert.Nil(t, got)
		assert.False(t, HasClaims(context.Background()))
	})
}

func Test_GetClaims(t *testing.T) {
	t.Run("it asserts the stored claims type", func(t *testing.T) {
		ctx := SetClaims(context.Background(), &DecodedToken{
			Claims: &testClaims{Roles: []string{"admin"}},
		})

		claims, err := GetClaims[*testClaims](ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, claims.Roles)
	})

	t.Run("it fails for a mismatched type", func(t *testing.T) {
		ctx := SetClaims(context.Background(), &DecodedToken{
			Claims: jwt.MapClaims{},
		})

		_, err := GetClaims[*testClaims](ctx)
		assert.ErrorIs(t, err, ErrClaimsNotFound)
	})

	t.Run("it fails when nothing was stored", func(t *testing.T) {
		_, err := GetClaims[jwt.MapClaims](context.Background())
		assert.ErrorIs(t, err, ErrClaimsNotFound)
	})
}
