package jwt_test

import (
	"testing"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_ParseToken(t *testing.T) {
	admin := models.Admin{ID: 42, Login: "artist"}

	t.Run("round trip", func(t *testing.T) {
		token, exp, err := jwt.NewToken(admin, time.Hour, "secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		meta, err := jwt.ParseToken(token, "secret")
		require.NoError(t, err)

		assert.Equal(t, int64(42), meta.AdminID)
		assert.Equal(t, "artist", meta.Login)
		assert.NotEmpty(t, meta.ID)
		assert.Equal(t, exp, meta.ExpiresAt)
		assert.LessOrEqual(t, meta.IssuedAt, meta.ExpiresAt)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := jwt.NewToken(admin, time.Hour, "secret")
		require.NoError(t, err)

		_, err = jwt.ParseToken(token, "other")
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := jwt.NewToken(admin, -time.Minute, "secret")
		require.NoError(t, err)

		_, err = jwt.ParseToken(token, "secret")
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwt.ParseToken("not-a-token", "secret")
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
