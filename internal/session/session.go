// Package session ties one points manager to a single play session.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/points"
)

// History records finished sessions.
type History interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// Session owns the points manager for one game and tracks the current round.
type Session struct {
	ID      string
	Points  *points.Manager
	history History
	log     zerolog.Logger
	now     func() time.Time

	startedAt  time.Time
	baseline   int // points carried in from saved state
	roundStart time.Time
	attempts   int
	correct    int
	incorrect  int
}

// Outcome describes the result of one guess.
type Outcome struct {
	Correct  bool
	Earned   int
	Attempts int
}

// New starts a session over manager. history may be nil.
func New(manager *points.Manager, history History, logger zerolog.Logger) *Session {
	return NewWithClock(manager, history, logger, time.Now)
}

// NewWithClock is New with an explicit clock.
func NewWithClock(manager *points.Manager, history History, logger zerolog.Logger, now func() time.Time) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:      id,
		Points:  manager,
		history: history,
		log:     logger.With().Str("session", id).Logger(),
		now:     now,
	}
	s.startedAt = now()
	s.newRound()
	return s
}

// Start initializes the manager.
func (s *Session) Start(ctx context.Context) {
	s.Points.Initialize(ctx)
	s.baseline = s.Points.CurrentPoints()
	s.log.Info().Int("points", s.Points.CurrentPoints()).Int("best", s.Points.HighScore()).Msg("session started")
}

// Guess reports one match attempt for the current round. A correct guess
// scores and starts the next round; a wrong one adds an attempt.
func (s *Session) Guess(correct bool) (Outcome, error) {
	elapsed := float64(s.now().Sub(s.roundStart)) / float64(time.Millisecond)
	if elapsed < 1 {
		elapsed = 1
	}
	result := model.MatchResult{
		Correct:       correct,
		TimeElapsedMs: elapsed,
		AttemptCount:  s.attempts,
	}
	earned, err := s.Points.AddPoints(result)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Correct: correct, Earned: earned, Attempts: s.attempts}
	if correct {
		s.correct++
		s.newRound()
	} else {
		s.incorrect++
		s.attempts++
	}
	return out, nil
}

// Attempts returns the attempt number of the current round.
func (s *Session) Attempts() int {
	return s.attempts
}

// Earned returns the points scored since the session started.
func (s *Session) Earned() int {
	return max(0, s.Points.CurrentPoints()-s.baseline)
}

// End records the session in history and resets the session score.
func (s *Session) End(ctx context.Context) error {
	err := s.record(ctx)
	s.Points.ResetSession()
	s.baseline = s.Points.CurrentPoints()
	s.startedAt = s.now()
	s.correct = 0
	s.incorrect = 0
	s.newRound()
	return err
}

// Close records the session and runs the manager's cleanup.
func (s *Session) Close(ctx context.Context) {
	if err := s.record(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to record session")
	}
	s.Points.Cleanup(ctx)
}

func (s *Session) record(ctx context.Context) error {
	if s.history == nil || (s.correct == 0 && s.incorrect == 0) {
		return nil
	}
	rec := model.SessionRecord{
		SessionID: s.ID,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Points:    s.Earned(),
		Correct:   s.correct,
		Incorrect: s.incorrect,
	}
	if _, err := s.history.InsertSession(ctx, rec); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

func (s *Session) newRound() {
	s.roundStart = s.now()
	s.attempts = 1
}
