package middleware

import (
	"context"
	"net/http"
	"strings"

	"notelock-server/pkg/response"
	"notelock-server/pkg/token"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := bearerClaims(r, jwtSecret)
			if !ok {
				response.Unauthorized(w, "Missing or invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches an identity when a valid bearer token is
// present but never rejects: the note-fetch and share surfaces serve
// anonymous callers too.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := bearerClaims(r, jwtSecret); ok {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerClaims(r *http.Request, jwtSecret string) (*token.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := token.Validate(parts[1], jwtSecret)
	if err != nil {
		return nil, false
	}

	return claims, true
}

// GetIdentity returns the authenticated claims, or nil for anonymous
// requests.
func GetIdentity(r *http.Request) *token.Claims {
	claims, ok := r.Context().Value(identityKey).(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}

func GetUserID(r *http.Request) string {
	if claims := GetIdentity(r); claims != nil {
		return claims.UserID
	}
	return ""
}
