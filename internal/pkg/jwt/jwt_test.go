package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key", "1h")

	employeeID := "emp-1"
	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessTokenBadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key", "not-a-duration")

	_, _, err := svc.GenerateAccessToken("user-1", nil, "admin")
	assert.Error(t, err)
}
