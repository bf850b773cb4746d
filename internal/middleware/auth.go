package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey contextKey = "user"

// AuthMiddleware verifies JWT tokens
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims extracts the verified token claims from a request context.
func Claims(r *http.Request) (jwt.MapClaims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(jwt.MapClaims)
	return claims, ok
}

// Actor resolves the authenticated actor's id, name and role from claims.
func Actor(r *http.Request) (id, name string, role models.Role, ok bool) {
	claims, ok := Claims(r)
	if !ok {
		return "", "", "", false
	}
	id, _ = claims["id"].(string)
	name, _ = claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	role = models.Role(roleStr)
	if id == "" || !models.ValidRole(role) {
		return "", "", "", false
	}
	return id, name, role, true
}

// RequireRole wraps a handler and rejects requests whose actor is not one of
// the allowed roles.
func RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			_, _, role, ok := Actor(r)
			if !ok || !allowed[role] {
				http.Error(w, "Insufficient role", http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}
