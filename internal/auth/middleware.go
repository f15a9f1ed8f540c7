package auth

import (
	"context"
	"fmt"
	"net/http"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// TokenVerifier validates a raw bearer token. Satisfied by
// (*oidc.IDTokenVerifier).Verify via the adapter in oidc.go.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) error
}

// IdentitySyncer records the authenticated identity so that username snapshots
// have a local row to read from. Satisfied by the users store.
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, id Identity) error
}

// Middleware verifies bearer tokens, stashes the caller's identity in the
// request context and keeps the local user snapshot fresh.
func Middleware(verifier TokenVerifier, users IdentitySyncer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			if err := verifier.Verify(r.Context(), rawToken); err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			identity, err := ExtractIdentityFromJWT(rawToken)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token claims: %v", err), http.StatusUnauthorized)
				return
			}

			if users != nil {
				if err := users.SyncIdentity(r.Context(), *identity); err != nil {
					http.Error(w, fmt.Sprintf("failed to sync identity: %v", err), http.StatusInternalServerError)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, identity.UserID)
			ctx = context.WithValue(ctx, usernameKey, identity.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated caller's id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// UsernameFromContext returns the authenticated caller's username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok
}
