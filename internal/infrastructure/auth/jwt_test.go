package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstock/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                strings.Repeat("s", 32),
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "labstock-test",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "Ada", "manager")

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, time.Minute)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		svc := newTestJWTService()
		userID := uuid.New()

		token, err := svc.GenerateToken(userID, "Ada", "manager")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "Ada", claims.Name)
		assert.Equal(t, "manager", claims.Role)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestJWTService()

		claims, err := svc.ValidateToken("not.a.token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                strings.Repeat("x", 32),
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "labstock-test",
		})

		token, err := other.GenerateToken(uuid.New(), "Eve", "researcher")
		require.NoError(t, err)

		_, err = newTestJWTService().ValidateToken(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:                strings.Repeat("s", 32),
			AccessTokenExpiration: -time.Minute,
			Issuer:                "labstock-test",
		})

		token, err := svc.GenerateToken(uuid.New(), "Ada", "manager")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
