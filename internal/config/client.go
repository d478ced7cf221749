package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client store drivers.
const (
	ClientStoreFile   = "file"
	ClientStoreSQLite = "sqlite"
)

// ClientConfig holds settings for the postdeck CLI. Flags override these
// values after LoadClient.
type ClientConfig struct {
	ServerURL   string
	StoreDriver string
	StorePath   string
	LogFile     string
	Timeout     time.Duration
	Verbose     bool
}

// LoadClient reads POSTDECK_* environment variables over built-in defaults.
func LoadClient() ClientConfig {
	dir := configDir()

	cfg := ClientConfig{
		ServerURL:   getEnv("POSTDECK_SERVER", "http://localhost:5000"),
		StoreDriver: strings.ToLower(getEnv("POSTDECK_STORE_DRIVER", ClientStoreFile)),
		StorePath:   os.Getenv("POSTDECK_STORE_PATH"),
		LogFile:     getEnv("POSTDECK_LOG_FILE", filepath.Join(dir, "postdeck.log")),
		Timeout:     10 * time.Second,
	}

	if v := os.Getenv("POSTDECK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// ResolvedStorePath returns StorePath, or the driver's default file in the
// user config directory.
func (c ClientConfig) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	if c.StoreDriver == ClientStoreSQLite {
		return filepath.Join(configDir(), "state.db")
	}
	return filepath.Join(configDir(), "state.json")
}

func configDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "postdeck")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "postdeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "postdeck")
}
