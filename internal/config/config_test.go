package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite default", cfg.Store.Driver)
	}
	if cfg.Retry.MaxAttempts != 8 {
		t.Errorf("MaxAttempts = %d, want 8 default", cfg.Retry.MaxAttempts)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://api.example.com"
timeout_sec = 10

[store]
driver = "postgres"
dsn = "postgres://localhost/admetrics"

[retry]
max_attempts = 3

[schedule]
daily_at = "05:30"
weekly_weekday = 0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout())
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Store.Driver)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Schedule.DailyAt != "05:30" {
		t.Errorf("DailyAt = %q, want 05:30", cfg.Schedule.DailyAt)
	}
	if cfg.Schedule.WeeklyWeekday != 0 {
		t.Errorf("WeeklyWeekday = %d, want 0", cfg.Schedule.WeeklyWeekday)
	}
	// Unset sections keep defaults.
	if cfg.Schedule.WeeklyAt != "10:00" {
		t.Errorf("WeeklyAt = %q, want 10:00 default", cfg.Schedule.WeeklyAt)
	}
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.com"
	cfg.Schedule.WeeklyWeekday = 3

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("config file not written")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", got.API.BaseURL, cfg.API.BaseURL)
	}
	if got.Schedule.WeeklyWeekday != 3 {
		t.Errorf("WeeklyWeekday = %d, want 3", got.Schedule.WeeklyWeekday)
	}
}

func TestGetToken_EnvWins(t *testing.T) {
	cfg := Config{API: APIConfig{Token: "from-config"}}

	t.Setenv("ADMETRICS_TOKEN", "")
	if got := GetToken(cfg); got != "from-config" {
		t.Errorf("GetToken = %q, want from-config", got)
	}

	t.Setenv("ADMETRICS_TOKEN", "from-env")
	if got := GetToken(cfg); got != "from-env" {
		t.Errorf("GetToken = %q, want from-env", got)
	}
}

func TestGetDSN_EnvWins(t *testing.T) {
	cfg := Config{Store: StoreConfig{DSN: "file.db"}}

	t.Setenv("ADMETRICS_DSN", "postgres://env")
	if got := GetDSN(cfg); got != "postgres://env" {
		t.Errorf("GetDSN = %q, want postgres://env", got)
	}
}

func TestRetryBackoffDefaults(t *testing.T) {
	var rc RetryConfig
	if rc.BaseBackoff() != 500*time.Millisecond {
		t.Errorf("BaseBackoff = %v, want 500ms", rc.BaseBackoff())
	}
	if rc.MaxBackoff() != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", rc.MaxBackoff())
	}
}
