package auth_test

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-marketplace/internal/auth"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestExtractTokenFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/api/listings", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := auth.ExtractTokenFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenFromRequestMissingHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/api/listings", nil)

	_, err := auth.ExtractTokenFromRequest(req)
	assert.Error(t, err)
}

func TestExtractTokenFromRequestBadFormat(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/api/listings", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, err := auth.ExtractTokenFromRequest(req)
	assert.Error(t, err)
}

func TestExtractIdentityFromJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":                "user-123",
		"preferred_username": "alice",
		"email":              "alice@example.com",
	})

	identity, err := auth.ExtractIdentityFromJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestExtractIdentityUsernameFallsBackToSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-456"})

	identity, err := auth.ExtractIdentityFromJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-456", identity.UserID)
	assert.Equal(t, "user-456", identity.Username)
	assert.Empty(t, identity.Email)
}

func TestExtractIdentityMissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"preferred_username": "noone"})

	_, err := auth.ExtractIdentityFromJWT(token)
	assert.Error(t, err)
}

func TestExtractIdentityGarbageToken(t *testing.T) {
	_, err := auth.ExtractIdentityFromJWT("not-a-jwt")
	assert.Error(t, err)

	_, err = auth.ExtractIdentityFromJWT("")
	assert.Error(t, err)
}

func TestExtractUserIDFromJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-789"})

	userID, err := auth.ExtractUserIDFromJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-789", userID)
}
