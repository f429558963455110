// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the authenticated employee.
const identityKey ContextKey = "identity"

// TokenValidator is an interface for validating bearer tokens.
// This allows the middleware to work with any token service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (Identity, error)
}

// Identity is the authenticated employee carried by a token.
type Identity interface {
	GetEmployeeID() uuid.UUID
	GetEmail() string
	GetRoles() []string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the identity to
// the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			identity, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from a case-insensitive "Bearer" Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="staffdesk"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// FromContext returns the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetEmployeeID extracts the authenticated employee ID from the request context.
func GetEmployeeID(r *http.Request) (uuid.UUID, error) {
	id, ok := FromContext(r.Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("employee ID not found in request context")
	}
	return id.GetEmployeeID(), nil
}

// Actor returns the email of the authenticated employee, or "".
func Actor(r *http.Request) string {
	if id, ok := FromContext(r.Context()); ok {
		return id.GetEmail()
	}
	return ""
}

// HasRole reports whether the authenticated employee holds any of roles.
func HasRole(r *http.Request, roles ...string) bool {
	id, ok := FromContext(r.Context())
	if !ok {
		return false
	}
	for _, have := range id.GetRoles() {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
