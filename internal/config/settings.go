package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/mugshot/internal/model"
)

// Settings is the resolved configuration: defaults, then the TOML file, then
// environment overrides. CLI flags are applied last by the caller.
type Settings struct {
	Scoring   model.ScoringPolicy
	Storage   model.StorageConfig
	RateLimit model.RateLimit
	DBPath    string
	InMemory  bool
	LogLevel  string
}

// Defaults returns settings with every default applied.
func Defaults() Settings {
	return Settings{
		Scoring:   model.DefaultScoringPolicy(),
		Storage:   model.DefaultStorageConfig(),
		RateLimit: model.DefaultRateLimit(),
		DBPath:    DefaultDBPath(),
		LogLevel:  "info",
	}
}

// ApplyFile overlays values present in the TOML file.
func (s *Settings) ApplyFile(fc FileConfig) {
	setInt(&s.Scoring.BasePoints, fc.Scoring.BasePoints)
	setInt(&s.Scoring.TimeBonus, fc.Scoring.TimeBonus)
	if fc.Scoring.TimeThresholdMs != nil {
		s.Scoring.TimeBonusThresholdMs = *fc.Scoring.TimeThresholdMs
	}
	setInt(&s.Scoring.AttemptPenalty, fc.Scoring.AttemptPenalty)
	if fc.Storage.Key != nil {
		s.Storage.StorageKey = *fc.Storage.Key
	}
	if fc.Storage.AutoSaveMs != nil {
		s.Storage.AutoSaveInterval = time.Duration(*fc.Storage.AutoSaveMs) * time.Millisecond
	}
	if fc.Storage.DBPath != nil {
		s.DBPath = *fc.Storage.DBPath
	}
	if fc.Storage.InMemory != nil {
		s.InMemory = *fc.Storage.InMemory
	}
	if fc.RateLimit.WindowSeconds != nil {
		s.RateLimit.Window = time.Duration(*fc.RateLimit.WindowSeconds) * time.Second
	}
	setInt(&s.RateLimit.Cap, fc.RateLimit.Cap)
}

// LoadEnvFile loads a .env file into the process environment. A missing file
// is not an error and existing variables are not overwritten.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays MUGSHOT_* environment variables. Invalid values are
// logged and ignored.
func (s *Settings) ApplyEnv(logger zerolog.Logger) {
	overrideInt(logger, &s.Scoring.BasePoints, "MUGSHOT_BASE_POINTS")
	overrideInt(logger, &s.Scoring.TimeBonus, "MUGSHOT_TIME_BONUS")
	overrideFloat(logger, &s.Scoring.TimeBonusThresholdMs, "MUGSHOT_TIME_BONUS_THRESHOLD_MS")
	overrideInt(logger, &s.Scoring.AttemptPenalty, "MUGSHOT_ATTEMPT_PENALTY")
	overrideString(&s.Storage.StorageKey, "MUGSHOT_STORAGE_KEY")
	overrideString(&s.DBPath, "MUGSHOT_DB")
	overrideString(&s.LogLevel, "MUGSHOT_LOG_LEVEL")
	overrideInt(logger, &s.RateLimit.Cap, "MUGSHOT_RATE_CAP")

	var autoSaveMs int
	if overrideInt(logger, &autoSaveMs, "MUGSHOT_AUTO_SAVE_MS") {
		s.Storage.AutoSaveInterval = time.Duration(autoSaveMs) * time.Millisecond
	}
	var windowSec int
	if overrideInt(logger, &windowSec, "MUGSHOT_RATE_WINDOW_SECONDS") {
		s.RateLimit.Window = time.Duration(windowSec) * time.Second
	}
	if val := os.Getenv("MUGSHOT_MEMORY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			s.InMemory = b
		} else {
			logger.Warn().Str("var", "MUGSHOT_MEMORY").Str("value", val).Msg("ignoring invalid value")
		}
	}
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	if err := s.Scoring.Validate(); err != nil {
		return err
	}
	if err := s.Storage.Validate(); err != nil {
		return err
	}
	if err := s.RateLimit.Validate(); err != nil {
		return err
	}
	if !s.InMemory && s.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", s.LogLevel)
	}
	return nil
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func overrideInt(logger zerolog.Logger, field *int, envKey string) bool {
	val := os.Getenv(envKey)
	if val == "" {
		return false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		logger.Warn().Str("var", envKey).Str("value", val).Msg("ignoring invalid value")
		return false
	}
	*field = n
	return true
}

func overrideFloat(logger zerolog.Logger, field *float64, envKey string) {
	val := os.Getenv(envKey)
	if val == "" {
		return
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		logger.Warn().Str("var", envKey).Str("value", val).Msg("ignoring invalid value")
		return
	}
	*field = f
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
