package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultDesktopAppID groups desktop alerts under the game launcher
const DefaultDesktopAppID = "com.squirrel.XIVLauncher.XIVLauncher"

// Config holds all configuration for the notifier and the query API
type Config struct {
	// Reference data
	DataDir         string `toml:"data_dir"`
	DataRefreshDays int    `toml:"data_refresh_days"`

	// Bookkeeping store
	DatabaseDriver string `toml:"database_driver"` // "sqlite" or "postgres"
	DatabasePath   string `toml:"sqlite_database"`
	DatabaseURL    string `toml:"database_url"`

	// Chat channel
	WebhookURL         string `toml:"webhook_url"`
	NotificationRoleID string `toml:"notification_role_id"`
	WebhookAlerts      bool   `toml:"webhook_alerts"` // also send reminders to the channel

	// Desktop
	DesktopNotify bool   `toml:"desktop_notify"`
	DesktopAppID  string `toml:"desktop_app_id"`

	// Loops
	EurekaEnabled bool   `toml:"eureka_enabled"`
	OceanEnabled  bool   `toml:"ocean_enabled"`
	OceanTiers    string `toml:"ocean_tiers"` // comma separated, e.g. "BEST,GOOD"

	// HTTP API
	APIPort        string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "json" or "console"
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		DataDir:         "data",
		DataRefreshDays: 30,
		DatabaseDriver:  "sqlite",
		DatabasePath:    "data/notify.db",
		DesktopAppID:    DefaultDesktopAppID,
		EurekaEnabled:   true,
		OceanEnabled:    true,
		OceanTiers:      "BEST,GOOD",
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadDotEnv loads .env then .env.local (which overrides) if they exist
func LoadDotEnv(dir string) {
	_ = godotenv.Load(dir + "/.env")
	_ = godotenv.Overload(dir + "/.env.local")
}

// Load builds the configuration: defaults, then the TOML file named by
// EUREKA_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("EUREKA_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.DataRefreshDays = getEnvInt("DATA_REFRESH_DAYS", c.DataRefreshDays)

	c.DatabaseDriver = getEnv("DATABASE_DRIVER", c.DatabaseDriver)
	c.DatabasePath = getEnv("SQLITE_DATABASE", c.DatabasePath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)

	c.WebhookURL = getEnv("WEBHOOK_URL", c.WebhookURL)
	c.NotificationRoleID = getEnv("NOTIFICATION_ROLE_ID", c.NotificationRoleID)
	c.WebhookAlerts = getEnvBool("WEBHOOK_ALERTS", c.WebhookAlerts)

	c.DesktopNotify = getEnvBool("DESKTOP_NOTIFY", c.DesktopNotify)
	c.DesktopAppID = getEnv("DESKTOP_APP_ID", c.DesktopAppID)

	c.EurekaEnabled = getEnvBool("EUREKA_ENABLED", c.EurekaEnabled)
	c.OceanEnabled = getEnvBool("OCEAN_ENABLED", c.OceanEnabled)
	c.OceanTiers = getEnv("OCEAN_TIERS", c.OceanTiers)

	c.APIPort = getEnv("PORT", c.APIPort)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// Validate rejects settings the services cannot start with
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("sqlite_database is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q (want sqlite or postgres)", c.DatabaseDriver)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q (want json or console)", c.LogFormat)
	}

	if c.DataRefreshDays <= 0 {
		return fmt.Errorf("data_refresh_days must be positive, got %d", c.DataRefreshDays)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
