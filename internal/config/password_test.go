package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", wantCost: 12},
		{name: "boundary cost 10", bcryptCost: "10", wantCost: 10},
		{name: "boundary cost 14", bcryptCost: "14", wantCost: 14},
		{name: "with pepper", bcryptCost: "11", pepper: "pepper", wantCost: 11},
		{name: "cost 9 rejected", bcryptCost: "9", wantErr: true},
		{name: "cost 15 rejected", bcryptCost: "15", wantErr: true},
		{name: "float cost", bcryptCost: "12.5", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("recruit-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "recruit-2024", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	assert.True(t, cfg.VerifyPassword("recruit-2024", hash))
	assert.False(t, cfg.VerifyPassword("recruit-2025", hash))
	assert.False(t, cfg.VerifyPassword("recruit-2024", ""))

	other, err := cfg.HashPassword("recruit-2024")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts differ per hash")
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "server-side"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("recruit-2024")
	require.NoError(t, err)
	assert.True(t, peppered.VerifyPassword("recruit-2024", hash))
	assert.False(t, plain.VerifyPassword("recruit-2024", hash))
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10, Pepper: "xxxxxxxxxx"}
	_, err := cfg.HashPassword(strings.Repeat("a", 70))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, cfg.VerifyPassword(strings.Repeat("a", 70), "$2a$10$whatever"))
}
