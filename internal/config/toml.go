// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Scoring   ScoringConfig   `toml:"scoring"`
	Storage   StorageConfig   `toml:"storage"`
	RateLimit RateLimitConfig `toml:"rate-limit"`
}

// ScoringConfig maps scoring policy settings.
type ScoringConfig struct {
	BasePoints      *int     `toml:"base-points"`
	TimeBonus       *int     `toml:"time-bonus"`
	TimeThresholdMs *float64 `toml:"time-bonus-threshold-ms"`
	AttemptPenalty  *int     `toml:"attempt-penalty"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	Key        *string `toml:"key"`
	AutoSaveMs *int    `toml:"auto-save-ms"`
	DBPath     *string `toml:"db"`
	InMemory   *bool   `toml:"memory"`
}

// RateLimitConfig maps sliding-window rate limit settings.
type RateLimitConfig struct {
	WindowSeconds *int `toml:"window-seconds"`
	Cap           *int `toml:"cap"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
