package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/internal/auth"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := auth.NewJWTService("test-secret", 10*time.Hour)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "user@example.com", "dark")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "dark", claims.PlatformMode)
	assert.Equal(t, "workhive", claims.Issuer)
}

func TestJWTService_Expiry(t *testing.T) {
	service := auth.NewJWTService("test-secret", -time.Minute)

	token, err := service.GenerateToken(uuid.New(), "user@example.com", "light")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	service := auth.NewJWTService("test-secret", time.Hour)
	other := auth.NewJWTService("different-secret", time.Hour)

	token, err := service.GenerateToken(uuid.New(), "user@example.com", "light")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_Garbage(t *testing.T) {
	service := auth.NewJWTService("test-secret", time.Hour)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
