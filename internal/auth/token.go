package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractTokenFromRequest extracts a JWT token from an HTTP request's Authorization header
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	// Bearer token format: "Bearer {token}"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// Identity is the slice of token claims the marketplace snapshots: the stable
// subject id and the human-readable username.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// ExtractIdentityFromJWT pulls the subject, preferred_username and email
// claims out of a JWT. The signature is verified upstream by the OIDC
// middleware; this only reads claims.
func ExtractIdentityFromJWT(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("subject claim not found in token")
	}

	identity := &Identity{UserID: sub}
	if username, ok := claims["preferred_username"].(string); ok {
		identity.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if identity.Username == "" {
		identity.Username = sub
	}

	return identity, nil
}

// ExtractUserIDFromJWT extracts the user ID from a JWT token
func ExtractUserIDFromJWT(tokenString string) (string, error) {
	identity, err := ExtractIdentityFromJWT(tokenString)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}
