// Package config loads and saves admetrics configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all admetrics configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Store    StoreConfig    `toml:"store"`
	Retry    RetryConfig    `toml:"retry"`
	Schedule ScheduleConfig `toml:"schedule"`
}

// APIConfig holds attribution API settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// StoreConfig selects the relational backend. Driver is "sqlite" or
// "postgres"; DSN is a file path for sqlite and a connection string for
// postgres.
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// RetryConfig bounds the transient-error retry on paginated fetches.
type RetryConfig struct {
	MaxAttempts    int `toml:"max_attempts"`
	BaseBackoffMS  int `toml:"base_backoff_ms"`
	MaxBackoffSecs int `toml:"max_backoff_secs"`
}

// ScheduleConfig drives the daemon: daily ingest time, and the weekday the
// weekly rollups run on (0=Sunday .. 6=Saturday).
type ScheduleConfig struct {
	DailyAt       string `toml:"daily_at"`
	WeeklyAt      string `toml:"weekly_at"`
	WeeklyWeekday int    `toml:"weekly_weekday"`
}

// Timeout returns the per-request API timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSec) * time.Second
}

// BaseBackoff returns the initial retry backoff.
func (r RetryConfig) BaseBackoff() time.Duration {
	if r.BaseBackoffMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(r.BaseBackoffMS) * time.Millisecond
}

// MaxBackoff returns the backoff cap.
func (r RetryConfig) MaxBackoff() time.Duration {
	if r.MaxBackoffSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.MaxBackoffSecs) * time.Second
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			TimeoutSec: 30,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(DataDir(), "admetrics.db"),
		},
		Retry: RetryConfig{
			MaxAttempts:    8,
			BaseBackoffMS:  500,
			MaxBackoffSecs: 30,
		},
		Schedule: ScheduleConfig{
			DailyAt:       "06:00",
			WeeklyAt:      "10:00",
			WeeklyWeekday: 1,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "admetrics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "admetrics")
}

// DataDir returns the default directory for local sqlite databases.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "admetrics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "admetrics")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file at an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetToken returns the API token from env var or config, in that order.
func GetToken(cfg Config) string {
	if tok := os.Getenv("ADMETRICS_TOKEN"); tok != "" {
		return tok
	}
	return cfg.API.Token
}

// GetDSN returns the store DSN from env var or config, in that order.
func GetDSN(cfg Config) string {
	if dsn := os.Getenv("ADMETRICS_DSN"); dsn != "" {
		return dsn
	}
	return cfg.Store.DSN
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
