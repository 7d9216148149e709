package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "empty.yaml"))
	require.NoError(t, os.WriteFile(os.Getenv("CONFIG_PATH"), []byte("{}\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, BackendFile, cfg.State.Backend)
	require.Equal(t, "acnh_checklist_v4.1", cfg.State.Key)
	require.True(t, cfg.Dataset.Bundled)
	require.Equal(t, 10*time.Second, cfg.Dataset.Timeout)
	require.Equal(t, "north", cfg.Checklist.DefaultHemisphere)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
http:
  address: ":9090"
  allowedOrigins: ["https://a.example"]
state:
  backend: memory
checklist:
  defaultHemisphere: south
dataset:
  baseUrl: https://cdn.example
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://b.example, https://c.example")
	t.Setenv("STATE_BACKEND", "Valkey")
	t.Setenv("STATE_VALKEY_ADDR", "localhost:6379")
	t.Setenv("DATASET_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, BackendValkey, cfg.State.Backend)
	require.Equal(t, "localhost:6379", cfg.State.Valkey.Addr)
	require.Equal(t, "south", cfg.Checklist.DefaultHemisphere)
	require.Equal(t, "https://cdn.example", cfg.Dataset.BaseURL)
	require.Equal(t, 3*time.Second, cfg.Dataset.Timeout)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown backend", func(c *Config) { c.State.Backend = "sqlite" }, "state.backend"},
		{"valkey without addr", func(c *Config) { c.State.Backend = BackendValkey }, "state.valkey.addr"},
		{"postgres without dsn", func(c *Config) { c.State.Backend = BackendPostgres }, "state.postgres.dsn"},
		{"bad hemisphere", func(c *Config) { c.Checklist.DefaultHemisphere = "east" }, "defaultHemisphere"},
		{"bad timezone", func(c *Config) { c.Checklist.Timezone = "Mars/Olympus" }, "checklist.timezone"},
		{"mirror without bucket", func(c *Config) {
			c.Dataset.Mirror.Enabled = true
			c.Dataset.Mirror.Endpoint = "https://r2.example"
		}, "dataset.mirror.bucket"},
		{"no dataset source", func(c *Config) { c.Dataset.Bundled = false }, "at least one"},
		{"rate limit without burst", func(c *Config) { c.HTTP.RateLimit.Burst = 0 }, "burst"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}

	require.NoError(t, defaultConfig().Validate())
}
