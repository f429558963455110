package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_url": "https://desk.example.in",
		"token": "abc.def.ghi",
		"page_size": 25
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://desk.example.in", cfg.APIURL)
	assert.Equal(t, "abc.def.ghi", cfg.Token)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0o644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadOrEmpty(t *testing.T) {
	cfg, err := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = LoadOrEmpty(bad)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := &Config{APIURL: "http://localhost:9090", Token: "tok", Email: "asha@agency.in"}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("STAFFDESK_CONFIG", "/tmp/staffdesk.json")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/staffdesk.json", path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "valid", cfg: Config{APIURL: "http://localhost:8080", PageSize: 50}},
		{name: "bad scheme", cfg: Config{APIURL: "ftp://host"}, wantErr: "api_url"},
		{name: "no host", cfg: Config{APIURL: "http://"}, wantErr: "api_url"},
		{name: "negative page size", cfg: Config{PageSize: -1}, wantErr: "page_size"},
		{name: "huge page size", cfg: Config{PageSize: 1000}, wantErr: "page_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{APIURL: DefaultAPIURL, Token: "file-token", PageSize: DefaultPageSize}
	partial := Config{APIURL: "https://desk.example.in"}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "https://desk.example.in", merged.APIURL)
	assert.Equal(t, "file-token", merged.Token)
	assert.Equal(t, DefaultPageSize, merged.PageSize)
}
