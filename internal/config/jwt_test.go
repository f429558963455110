package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "staffdesk-test-secret-key"

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Secret)
	assert.Equal(t, 12, cfg.ExpirationHours, "should default to one working day")
	assert.Equal(t, "staffdesk", cfg.Issuer)
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRATION_HOURS", "48")
	t.Setenv("JWT_ISSUER", "agency-backoffice")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
	assert.Equal(t, "agency-backoffice", cfg.Issuer)
}

func TestNewJWTConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantErr    string
	}{
		{name: "missing secret", secret: "", wantErr: "JWT_SECRET is required"},
		{name: "short secret", secret: "short", wantErr: "at least 16"},
		{name: "non-numeric expiration", secret: testSecret, expiration: "abc", wantErr: "invalid JWT_EXPIRATION_HOURS"},
		{name: "zero expiration", secret: testSecret, expiration: "0", wantErr: "between 1 and 720"},
		{name: "expiration too long", secret: testSecret, expiration: "1000", wantErr: "between 1 and 720"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
