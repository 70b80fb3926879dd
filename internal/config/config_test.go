package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
instance: "shop-dev"
store:
  redis_url: "redis://localhost:6380"
  image: "redis:7.2"
form:
  reset_delay: 5s
  check_debounce: 150ms
notifications:
  default_ttl: 10s
log_level: debug
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop-dev", config.Instance)
	assert.Equal(t, "redis://localhost:6380", config.Store.RedisURL)
	assert.Equal(t, "redis:7.2", config.Store.Image)
	assert.Equal(t, 5*time.Second, config.Form.ResetDelay)
	assert.Equal(t, 150*time.Millisecond, config.Form.CheckDebounce)
	assert.Equal(t, 10*time.Second, config.Notifications.DefaultTTL)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultInstance, config.Instance)
	assert.Equal(t, DefaultRedisImage, config.Store.Image)
	assert.Empty(t, config.Store.RedisURL)
	assert.Equal(t, 2*time.Second, config.Form.ResetDelay)
	assert.Equal(t, 300*time.Millisecond, config.Form.CheckDebounce)
	assert.Equal(t, 3*time.Second, config.Notifications.DefaultTTL)
	assert.Equal(t, "warn", config.LogLevel)
}

func TestLoad_ZeroDebounceIsKept(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
form:
  check_debounce: 0s
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, config.Form.CheckDebounce)
}

func TestLoad_FileNotFoundUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
form:
  - this is invalid
    yaml syntax
`)

	config, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config CatalogConfig
		errMsg string
	}{
		{
			name:   "unsupported version",
			config: CatalogConfig{Version: "2.0"},
			errMsg: "unsupported version: 2.0",
		},
		{
			name:   "missing version",
			config: CatalogConfig{},
			errMsg: "unsupported version",
		},
		{
			name:   "bad instance name",
			config: CatalogConfig{Version: "1.0", Instance: "Shop_Dev"},
			errMsg: "invalid instance name",
		},
		{
			name:   "negative reset delay",
			config: CatalogConfig{Version: "1.0", Form: FormConfig{ResetDelay: -time.Second}},
			errMsg: "form.reset_delay must be >= 0",
		},
		{
			name:   "negative debounce",
			config: CatalogConfig{Version: "1.0", Form: FormConfig{CheckDebounce: -time.Millisecond}},
			errMsg: "form.check_debounce must be >= 0",
		},
		{
			name:   "negative ttl",
			config: CatalogConfig{Version: "1.0", Notifications: NotificationsConfig{DefaultTTL: -time.Second}},
			errMsg: "notifications.default_ttl must be >= 0",
		},
		{
			name:   "bad log level",
			config: CatalogConfig{Version: "1.0", LogLevel: "verbose"},
			errMsg: "invalid log_level: verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefault(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, DefaultCheckDebounce, config.Form.CheckDebounce)
}
