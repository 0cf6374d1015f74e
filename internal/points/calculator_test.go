package points

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

func TestCalculateIncorrectIsZero(t *testing.T) {
	policy := model.DefaultScoringPolicy()
	for _, attempts := range []int{1, 2, 10} {
		for _, elapsed := range []float64{1, 4999, 5000, 60000} {
			got, err := Calculate(model.MatchResult{Correct: false, TimeElapsedMs: elapsed, AttemptCount: attempts}, policy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != 0 {
				t.Fatalf("expected 0 for incorrect match, got %d", got)
			}
		}
	}
}

func TestCalculate(t *testing.T) {
	policy := model.DefaultScoringPolicy()
	cases := []struct {
		name     string
		elapsed  float64
		attempts int
		want     int
	}{
		{"fast first try", 3000, 1, 150},
		{"slow first try", 5000, 1, 100},
		{"slow second try", 8000, 2, 75},
		{"fast third try", 1000, 3, 100},
		{"penalty floors at zero", 9000, 5, 0},
		{"huge attempt count", 9000, math.MaxInt32, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(model.MatchResult{Correct: true, TimeElapsedMs: tc.elapsed, AttemptCount: tc.attempts}, policy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCalculateTimeBonusDelta(t *testing.T) {
	policy := model.ScoringPolicy{BasePoints: 40, TimeBonus: 35, TimeBonusThresholdMs: 2000, AttemptPenalty: 10}
	fast, _ := Calculate(model.MatchResult{Correct: true, TimeElapsedMs: 1999, AttemptCount: 2}, policy)
	slow, _ := Calculate(model.MatchResult{Correct: true, TimeElapsedMs: 2000, AttemptCount: 2}, policy)
	if fast-slow != policy.TimeBonus {
		t.Fatalf("expected bonus delta %d, got %d", policy.TimeBonus, fast-slow)
	}
}

func TestCalculateClampsToMax(t *testing.T) {
	policy := model.ScoringPolicy{BasePoints: model.MaxPoints, TimeBonus: 500, TimeBonusThresholdMs: 1000}
	got, err := Calculate(model.MatchResult{Correct: true, TimeElapsedMs: 10, AttemptCount: 1}, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != model.MaxPoints {
		t.Fatalf("expected clamp to %d, got %d", model.MaxPoints, got)
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	policy := model.DefaultScoringPolicy()
	cases := map[string]model.MatchResult{
		"zero elapsed":     {Correct: true, TimeElapsedMs: 0, AttemptCount: 1},
		"negative elapsed": {Correct: true, TimeElapsedMs: -5, AttemptCount: 1},
		"nan elapsed":      {Correct: true, TimeElapsedMs: math.NaN(), AttemptCount: 1},
		"inf elapsed":      {Correct: false, TimeElapsedMs: math.Inf(1), AttemptCount: 1},
		"zero attempts":    {Correct: true, TimeElapsedMs: 100, AttemptCount: 0},
		"negative attempt": {Correct: false, TimeElapsedMs: 100, AttemptCount: -1},
	}
	for name, result := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Calculate(result, policy)
			if !errors.Is(err, scoreerrors.ErrCalculation) {
				t.Fatalf("expected calculation error, got %v", err)
			}
		})
	}
}
