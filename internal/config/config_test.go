package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EUREKA_CONFIG", "DATA_DIR", "DATA_REFRESH_DAYS", "DATABASE_DRIVER",
		"SQLITE_DATABASE", "DATABASE_URL", "WEBHOOK_URL", "NOTIFICATION_ROLE_ID", "WEBHOOK_ALERTS",
		"DESKTOP_NOTIFY", "DESKTOP_APP_ID", "EUREKA_ENABLED", "OCEAN_ENABLED",
		"OCEAN_TIERS", "PORT", "ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, DefaultDesktopAppID, cfg.DesktopAppID)
	assert.True(t, cfg.EurekaEnabled)
	assert.False(t, cfg.WebhookAlerts)
	assert.Empty(t, cfg.APIPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_DIR", "/srv/eureka")
	t.Setenv("DATA_REFRESH_DAYS", "7")
	t.Setenv("DESKTOP_NOTIFY", "true")
	t.Setenv("OCEAN_ENABLED", "0")
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://example.org")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/eureka", cfg.DataDir)
	assert.Equal(t, 7, cfg.DataRefreshDays)
	assert.True(t, cfg.DesktopNotify)
	assert.False(t, cfg.OceanEnabled)
	assert.Equal(t, "8081", cfg.APIPort)
	assert.Equal(t, []string{"http://localhost:5173", "https://example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidNumbersKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_REFRESH_DAYS", "soon")
	t.Setenv("DESKTOP_NOTIFY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.DataRefreshDays)
	assert.False(t, cfg.DesktopNotify)
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "eureka.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "/var/lib/eureka"
database_driver = "postgres"
database_url = "postgres://eureka@localhost/eureka"
webhook_url = "https://discord.example/api/webhooks/1/abc"
webhook_alerts = true
ocean_tiers = "BEST"
allowed_origins = ["https://a.example"]
`), 0644))
	t.Setenv("EUREKA_CONFIG", path)
	// Environment wins over the file
	t.Setenv("OCEAN_TIERS", "BEST,VERY_GOOD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/eureka", cfg.DataDir)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "https://discord.example/api/webhooks/1/abc", cfg.WebhookURL)
	assert.True(t, cfg.WebhookAlerts)
	assert.Equal(t, "BEST,VERY_GOOD", cfg.OceanTiers)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
	// Unset keys keep their defaults
	assert.Equal(t, 30, cfg.DataRefreshDays)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("EUREKA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir = "), 0644))
	t.Setenv("EUREKA_CONFIG", path)
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }, "database_url is required"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "unknown database driver"},
		{"empty sqlite path", func(c *Config) { c.DatabasePath = "" }, "sqlite_database is required"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "unknown log format"},
		{"zero refresh", func(c *Config) { c.DataRefreshDays = 0 }, "must be positive"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}

	assert.NoError(t, Defaults().Validate())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATA_DIR=from-env\nPORT=9000\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("PORT=9001\n"), 0644))

	LoadDotEnv(dir)
	t.Cleanup(func() {
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("PORT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DataDir)
	assert.Equal(t, "9001", cfg.APIPort)
}
