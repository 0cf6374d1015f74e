// Package points computes, rate-limits, and persists a player's score.
package points

import (
	"fmt"
	"math"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

// Calculate converts a match outcome into a point value under policy.
func Calculate(result model.MatchResult, policy model.ScoringPolicy) (int, error) {
	if err := validateResult(result); err != nil {
		return 0, err
	}
	if !result.Correct {
		return 0, nil
	}

	points := policy.BasePoints
	if result.TimeElapsedMs < policy.TimeBonusThresholdMs {
		points += policy.TimeBonus
	}
	if result.AttemptCount > 1 && policy.AttemptPenalty > 0 {
		extra := result.AttemptCount - 1
		// Compare by division so large attempt counts cannot overflow.
		if extra >= points/policy.AttemptPenalty+1 {
			points = 0
		} else {
			points -= policy.AttemptPenalty * extra
		}
		if points < 0 {
			points = 0
		}
	}
	return clampPoints(points), nil
}

func validateResult(result model.MatchResult) error {
	if math.IsNaN(result.TimeElapsedMs) || math.IsInf(result.TimeElapsedMs, 0) {
		return scoreerrors.Calculation("time elapsed must be a finite number")
	}
	if result.TimeElapsedMs <= 0 {
		return scoreerrors.Calculation(fmt.Sprintf("time elapsed must be > 0, got %v", result.TimeElapsedMs))
	}
	if result.AttemptCount < 1 {
		return scoreerrors.Calculation(fmt.Sprintf("attempt count must be a positive integer, got %d", result.AttemptCount))
	}
	return nil
}

func clampPoints(points int) int {
	if points < model.MinPoints {
		return model.MinPoints
	}
	if points > model.MaxPoints {
		return model.MaxPoints
	}
	return points
}
