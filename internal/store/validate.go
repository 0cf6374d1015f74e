// Package store persists points state and session history.
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

// record is the on-disk shape of a PointsState.
type record struct {
	CurrentPoints int    `json:"currentPoints"`
	HighScore     int    `json:"highScore"`
	LastUpdated   string `json:"lastUpdated"`
}

// rawRecord decodes loosely so that missing fields and fractional numbers are detectable.
type rawRecord struct {
	CurrentPoints *float64 `json:"currentPoints"`
	HighScore     *float64 `json:"highScore"`
	LastUpdated   *string  `json:"lastUpdated"`
}

// ValidateState applies the rules shared by every store implementation.
func ValidateState(state model.PointsState, now time.Time) error {
	if err := validateBounds(state); err != nil {
		return err
	}
	if state.HighScore < state.CurrentPoints {
		return scoreerrors.Validation(fmt.Sprintf("high score %d is below current points %d", state.HighScore, state.CurrentPoints))
	}
	return validateTimestamp(state.LastUpdated, now)
}

func validateBounds(state model.PointsState) error {
	if !inBounds(state.CurrentPoints) {
		return scoreerrors.Validation(fmt.Sprintf("current points %d out of range", state.CurrentPoints))
	}
	if !inBounds(state.HighScore) {
		return scoreerrors.Validation(fmt.Sprintf("high score %d out of range", state.HighScore))
	}
	return nil
}

func validateTimestamp(ts, now time.Time) error {
	if ts.IsZero() {
		return scoreerrors.Validation("last updated is missing")
	}
	if ts.After(now) {
		return scoreerrors.Validation(fmt.Sprintf("last updated %s is in the future", ts.Format(time.RFC3339)))
	}
	return nil
}

func inBounds(v int) bool {
	return v >= model.MinPoints && v <= model.MaxPoints
}

func encodeState(state model.PointsState) (string, error) {
	data, err := json.Marshal(record{
		CurrentPoints: state.CurrentPoints,
		HighScore:     state.HighScore,
		LastUpdated:   state.LastUpdated.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeState parses and validates a stored record.
func decodeState(raw string, now time.Time) (model.PointsState, error) {
	var rec rawRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.PointsState{}, scoreerrors.Validation(fmt.Sprintf("stored points are not valid JSON: %v", err))
	}
	if rec.CurrentPoints == nil || rec.HighScore == nil || rec.LastUpdated == nil {
		return model.PointsState{}, scoreerrors.Validation("stored points record is missing fields")
	}
	current, err := integral("currentPoints", *rec.CurrentPoints)
	if err != nil {
		return model.PointsState{}, err
	}
	high, err := integral("highScore", *rec.HighScore)
	if err != nil {
		return model.PointsState{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, *rec.LastUpdated)
	if err != nil {
		return model.PointsState{}, scoreerrors.Validation(fmt.Sprintf("lastUpdated is not a valid date: %v", err))
	}
	state := model.PointsState{CurrentPoints: current, HighScore: high, LastUpdated: ts}
	if err := ValidateState(state, now); err != nil {
		return model.PointsState{}, err
	}
	return state, nil
}

func integral(field string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, scoreerrors.Validation(fmt.Sprintf("%s must be an integer", field))
	}
	if v < model.MinPoints || v > model.MaxPoints {
		return 0, scoreerrors.Validation(fmt.Sprintf("%s %v out of range", field, v))
	}
	return int(v), nil
}
