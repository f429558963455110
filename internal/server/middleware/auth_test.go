package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]*testIdentity
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]*testIdentity)}
}

func (v *testTokenValidator) add(token string, id *testIdentity) {
	v.validTokens[token] = id
}

func (v *testTokenValidator) ValidateToken(tokenString string) (Identity, error) {
	id, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return id, nil
}

type testIdentity struct {
	id    uuid.UUID
	email string
	roles []string
}

func (c *testIdentity) GetEmployeeID() uuid.UUID { return c.id }
func (c *testIdentity) GetEmail() string         { return c.email }
func (c *testIdentity) GetRoles() []string       { return c.roles }

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := newTestTokenValidator()
	employee := &testIdentity{id: uuid.New(), email: "asha@agency.in", roles: []string{"recruiter"}}
	v.add("valid-token", employee)

	var gotID uuid.UUID
	var gotActor string
	handler := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetEmployeeID(r)
		require.NoError(t, err)
		gotID = id
		gotActor = Actor(r)
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"Bearer valid-token", "bearer valid-token", "BEARER   valid-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, employee.id, gotID)
		assert.Equal(t, "asha@agency.in", gotActor)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	v := newTestTokenValidator()
	v.add("valid-token", &testIdentity{id: uuid.New()})

	called := false
	handler := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	for _, header := range []string{"", "valid-token", "Basic dXNlcjpwYXNz", "Bearer", "Bearer a b", "Bearer wrong-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		assert.Contains(t, w.Body.String(), `"error"`)
	}
	assert.False(t, called)
}

func TestContextHelpers_NoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetEmployeeID(req)
	assert.Error(t, err)
	assert.Equal(t, "", Actor(req))
	assert.False(t, HasRole(req, "admin"))
}

func TestHasRole(t *testing.T) {
	ctx := WithIdentity(context.Background(), &testIdentity{id: uuid.New(), roles: []string{"recruiter", "lead"}})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	assert.True(t, HasRole(req, "admin", "lead"))
	assert.False(t, HasRole(req, "admin"))

	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"recruiter", "lead"}, id.GetRoles())
}
