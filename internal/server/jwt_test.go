package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffdesk/internal/config"
	"github.com/jonathan/staffdesk/internal/types"
)

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing",
		ExpirationHours: expirationHours,
		Issuer:          "staffdesk",
	})
}

func testEmployee() *types.Employee {
	return &types.Employee{
		ID:    uuid.New(),
		Email: "asha@agency.in",
		Roles: types.StringList{types.RoleAdmin, types.RoleLead},
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := setupTestJWTService(t, 12)
	employee := testEmployee()

	token, err := service.GenerateToken(employee)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, claims.EmployeeID)
	assert.Equal(t, employee.Email, claims.GetEmail())
	assert.Equal(t, []string{"admin", "lead"}, claims.GetRoles())
	assert.Equal(t, "staffdesk", claims.Issuer)
	assert.Equal(t, employee.ID.String(), claims.Subject)

	expiresIn := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, (12 * time.Hour).Seconds(), expiresIn.Seconds(), 60)
}

func TestJWTService_Expired(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Now().Add(-2 * time.Hour)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(testEmployee())
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := setupTestJWTService(t, 1).GenerateToken(testEmployee())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "another-secret-of-some-length", ExpirationHours: 1, Issuer: "staffdesk"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	other := NewJWTService(&config.JWTConfig{Secret: "test-secret-key-for-jwt-signing", ExpirationHours: 1, Issuer: "elsewhere"})
	token, err := other.GenerateToken(testEmployee())
	require.NoError(t, err)

	_, err = setupTestJWTService(t, 1).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTService_Rejects(t *testing.T) {
	service := setupTestJWTService(t, 1)

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{EmployeeID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "staffdesk"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = service.ValidateToken(unsigned)
	assert.Error(t, err)

	missingID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "staffdesk", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret-key-for-jwt-signing"))
	require.NoError(t, err)
	_, err = service.ValidateToken(missingID)
	assert.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	employee := testEmployee()
	token, err := service.GenerateToken(employee)
	require.NoError(t, err)

	identity, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, identity.GetEmployeeID())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
