// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Point bounds shared by the calculator and every store.
const (
	MinPoints = 0
	MaxPoints = 1_000_000
)

// Defaults for scoring, storage, and rate limiting.
const (
	DefaultBasePoints           = 100
	DefaultTimeBonus            = 50
	DefaultTimeBonusThresholdMs = 5000
	DefaultAttemptPenalty       = 25
	DefaultStorageKey           = "mugshot.points"
	DefaultAutoSaveInterval     = 30 * time.Second
	DefaultRateWindow           = 60 * time.Second
	DefaultRateCap              = 1000
)

// MatchResult reports one match attempt from the game board.
type MatchResult struct {
	Correct       bool
	TimeElapsedMs float64
	AttemptCount  int
}

// PointsState is the persisted score snapshot.
type PointsState struct {
	CurrentPoints int
	HighScore     int
	LastUpdated   time.Time
}

// ZeroState returns the state used on first run and after any rejected record.
func ZeroState(now time.Time) PointsState {
	return PointsState{LastUpdated: now}
}

// ScoringPolicy holds the point-award rules.
type ScoringPolicy struct {
	BasePoints           int
	TimeBonus            int
	TimeBonusThresholdMs float64
	AttemptPenalty       int
}

// DefaultScoringPolicy returns the stock policy.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		BasePoints:           DefaultBasePoints,
		TimeBonus:            DefaultTimeBonus,
		TimeBonusThresholdMs: DefaultTimeBonusThresholdMs,
		AttemptPenalty:       DefaultAttemptPenalty,
	}
}

// Validate checks the policy bounds.
func (p ScoringPolicy) Validate() error {
	if p.BasePoints < 0 {
		return fmt.Errorf("base points must be >= 0")
	}
	if p.TimeBonus < 0 {
		return fmt.Errorf("time bonus must be >= 0")
	}
	if !(p.TimeBonusThresholdMs > 0) {
		return fmt.Errorf("time bonus threshold must be > 0")
	}
	if p.AttemptPenalty < 0 {
		return fmt.Errorf("attempt penalty must be >= 0")
	}
	return nil
}

// StorageConfig controls persistence of a points manager.
type StorageConfig struct {
	// AutoSaveInterval of zero disables periodic saves.
	AutoSaveInterval time.Duration
	StorageKey       string
}

// DefaultStorageConfig returns the stock storage settings.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		AutoSaveInterval: DefaultAutoSaveInterval,
		StorageKey:       DefaultStorageKey,
	}
}

// Validate checks the storage settings.
func (c StorageConfig) Validate() error {
	if c.AutoSaveInterval < 0 {
		return fmt.Errorf("auto-save interval must be >= 0")
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	return nil
}

// RateLimit bounds how many points can be credited within a sliding window.
type RateLimit struct {
	Window time.Duration
	Cap    int
}

// DefaultRateLimit returns 1000 points per 60 seconds.
func DefaultRateLimit() RateLimit {
	return RateLimit{Window: DefaultRateWindow, Cap: DefaultRateCap}
}

// Validate checks the rate limit settings.
func (r RateLimit) Validate() error {
	if r.Window <= 0 {
		return fmt.Errorf("rate window must be > 0")
	}
	if r.Cap <= 0 {
		return fmt.Errorf("rate cap must be > 0")
	}
	return nil
}

// SessionRecord summarizes one finished play session.
type SessionRecord struct {
	ID        int64
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
	Points    int
	Correct   int
	Incorrect int
}

// StatsConfig defines filters for session history output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}
