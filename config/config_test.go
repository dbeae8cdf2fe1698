package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
url: "https://example.com/news"
fetcher:
  timeout: 15s
store:
  driver: sqlite
  path: links.db
filter:
  exclude: ["*.pdf"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/news", cfg.URL)
	assert.Equal(t, DefaultClassMarker, cfg.ClassMarker)
	assert.Equal(t, "http", cfg.Fetcher.Driver)
	assert.Equal(t, 15*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "links.db", cfg.Store.Path)
	assert.Equal(t, []string{"*.pdf"}, cfg.Filter.Exclude)
	assert.Equal(t, DefaultLineEndpoint, cfg.Notifier.Endpoint)
	assert.Equal(t, "log.log", cfg.Log.Path)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestResolveToken(t *testing.T) {
	t.Setenv("LINE_TOKEN", " secret \n")
	t.Setenv("OTHER_TOKEN", "other")

	cfg := GetDefaultConfig()
	cfg.ResolveToken()
	assert.Equal(t, "secret", cfg.Notifier.Token)

	cfg.Notifier.TokenEnv = "OTHER_TOKEN"
	cfg.ResolveToken()
	assert.Equal(t, "other", cfg.Notifier.Token)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LINK_NOTIFIER_TEST_TOKEN=from-file\n"), 0o600))
	t.Setenv("LINK_NOTIFIER_TEST_TOKEN", "")
	os.Unsetenv("LINK_NOTIFIER_TEST_TOKEN")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("LINK_NOTIFIER_TEST_TOKEN"))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := GetDefaultConfig()
		cfg.URL = "https://example.com"
		cfg.Notifier.Token = "token"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"missing token", func(c *Config) { c.Notifier.Token = "" }, "access token"},
		{"missing url", func(c *Config) { c.URL = "  " }, "url is required"},
		{"missing class marker", func(c *Config) { c.ClassMarker = "" }, "class_marker"},
		{"unknown fetcher", func(c *Config) { c.Fetcher.Driver = "curl" }, "unknown fetcher driver"},
		{"unknown store", func(c *Config) { c.Store.Driver = "redis" }, "unknown store driver"},
		{"postgres dsn from environment", func(c *Config) { c.Store.Driver = "postgres" }, ""},
		{"csv without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"telegram without chat", func(c *Config) { c.Notifier.Driver = "telegram" }, "chat_id"},
		{"unknown notifier", func(c *Config) { c.Notifier.Driver = "mail" }, "unknown notifier driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
