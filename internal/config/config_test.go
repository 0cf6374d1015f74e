package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mugshot/internal/model"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Scoring != model.DefaultScoringPolicy() {
		t.Errorf("unexpected scoring defaults: %+v", s.Scoring)
	}
	if s.Storage.StorageKey != "mugshot.points" {
		t.Errorf("expected default key mugshot.points, got %q", s.Storage.StorageKey)
	}
	if s.RateLimit.Window != time.Minute || s.RateLimit.Cap != 1000 {
		t.Errorf("unexpected rate limit defaults: %+v", s.RateLimit)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Scoring.BasePoints != nil {
		t.Fatalf("expected empty config")
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scoring]
base-points = 200
time-bonus-threshold-ms = 2500

[storage]
key = "player.two"
auto-save-ms = 0
memory = true

[rate-limit]
window-seconds = 30
cap = 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	s := Defaults()
	s.ApplyFile(fc)
	if s.Scoring.BasePoints != 200 || s.Scoring.TimeBonusThresholdMs != 2500 {
		t.Errorf("scoring not applied: %+v", s.Scoring)
	}
	if s.Scoring.TimeBonus != model.DefaultTimeBonus {
		t.Errorf("absent keys must keep defaults, got time bonus %d", s.Scoring.TimeBonus)
	}
	if s.Storage.StorageKey != "player.two" || s.Storage.AutoSaveInterval != 0 || !s.InMemory {
		t.Errorf("storage not applied: %+v memory=%v", s.Storage, s.InMemory)
	}
	if s.RateLimit.Window != 30*time.Second || s.RateLimit.Cap != 500 {
		t.Errorf("rate limit not applied: %+v", s.RateLimit)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[scoring\nbase-points = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MUGSHOT_BASE_POINTS", "120")
	t.Setenv("MUGSHOT_AUTO_SAVE_MS", "1500")
	t.Setenv("MUGSHOT_STORAGE_KEY", "env.key")
	t.Setenv("MUGSHOT_RATE_CAP", "nope")
	t.Setenv("MUGSHOT_MEMORY", "true")

	s := Defaults()
	s.ApplyEnv(zerolog.Nop())
	if s.Scoring.BasePoints != 120 {
		t.Errorf("expected base points 120, got %d", s.Scoring.BasePoints)
	}
	if s.Storage.AutoSaveInterval != 1500*time.Millisecond {
		t.Errorf("expected auto-save 1.5s, got %s", s.Storage.AutoSaveInterval)
	}
	if s.Storage.StorageKey != "env.key" {
		t.Errorf("expected env key, got %q", s.Storage.StorageKey)
	}
	if s.RateLimit.Cap != model.DefaultRateCap {
		t.Errorf("invalid env value must keep default, got %d", s.RateLimit.Cap)
	}
	if !s.InMemory {
		t.Errorf("expected in-memory from env")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env must not fail: %v", err)
	}
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MUGSHOT_TIME_BONUS=75\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("MUGSHOT_TIME_BONUS", "")
	if err := os.Unsetenv("MUGSHOT_TIME_BONUS"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	s := Defaults()
	s.ApplyEnv(zerolog.Nop())
	if s.Scoring.TimeBonus != 75 {
		t.Errorf("expected time bonus 75 from .env, got %d", s.Scoring.TimeBonus)
	}
}

func TestValidate(t *testing.T) {
	s := Defaults()
	s.Storage.StorageKey = ""
	if err := s.Validate(); err == nil {
		t.Errorf("expected error for empty key")
	}
	s = Defaults()
	s.LogLevel = "loud"
	if err := s.Validate(); err == nil {
		t.Errorf("expected error for bad log level")
	}
	s = Defaults()
	s.DBPath = ""
	s.InMemory = true
	if err := s.Validate(); err != nil {
		t.Errorf("in-memory settings need no db path: %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if DefaultConfigPath() != filepath.Join("/tmp/cfg", "mugshot", "config.toml") {
		t.Errorf("unexpected config path %q", DefaultConfigPath())
	}
	if DefaultDBPath() != filepath.Join("/tmp/data", "mugshot", "mugshot.db") {
		t.Errorf("unexpected db path %q", DefaultDBPath())
	}
}
