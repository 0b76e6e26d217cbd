package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/meular/internal/models"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing token claims in context
	UserContextKey contextKey = "user"
	// RefreshTokenContextKey holds the raw refresh token presented to /auth/refresh
	RefreshTokenContextKey contextKey = "refresh_token"
)

const bearerPrefix = "bearer "

// BearerToken extracts the token from an Authorization header value.
// The "Bearer" scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// RequireAccessToken validates the bearer access token and injects its claims
func RequireAccessToken(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				pkghttp.WriteUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tm.ValidateAccessToken(tokenString)
			if err != nil {
				writeTokenError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRefreshToken validates the bearer refresh token signature and
// injects both the claims and the raw token. Whether the token is the user's
// current one is checked later against the stored hash.
func RequireRefreshToken(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				pkghttp.WriteUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tm.ValidateRefreshToken(tokenString)
			if err != nil {
				writeTokenError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			ctx = context.WithValue(ctx, RefreshTokenContextKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeTokenError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTokenExpired) {
		pkghttp.WriteUnauthorized(w, "token expired")
		return
	}
	pkghttp.WriteUnauthorized(w, "invalid token")
}

// GetUserFromContext extracts token claims from request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetRefreshTokenFromContext returns the raw refresh token set by RequireRefreshToken
func GetRefreshTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(RefreshTokenContextKey).(string)
	return token
}
