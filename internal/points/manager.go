package points

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

// Store persists a PointsState.
// Implementations may be backed by memory or durable key/value storage.
type Store interface {
	// Save persists state, returning a storage error on failure.
	Save(ctx context.Context, state model.PointsState) error

	// Load returns the saved state, or the zero state when nothing valid is stored.
	// Missing or corrupt data is never an error.
	Load(ctx context.Context) (model.PointsState, error)

	// Clear removes any saved state.
	Clear(ctx context.Context) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for warnings and auto-save diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRateLimit overrides the default 1000 points per 60 seconds.
func WithRateLimit(limit model.RateLimit) Option {
	return func(m *Manager) {
		m.rateLimit = limit
	}
}

// Manager owns the session score and the all-time high score.
type Manager struct {
	store     Store
	policy    model.ScoringPolicy
	storage   model.StorageConfig
	rateLimit model.RateLimit
	log       zerolog.Logger
	now       func() time.Time

	mu            sync.Mutex // guards the fields below
	currentPoints int
	highScore     int
	limiter       *Limiter
	initialized   bool

	// saveMu serializes writes so an auto-save tick never interleaves with a
	// manual save on the same storage key.
	saveMu sync.Mutex

	stopAutoSave context.CancelFunc
	autoSaveDone chan struct{}
}

// NewManager constructs a manager over store.
func NewManager(store Store, policy model.ScoringPolicy, storage model.StorageConfig, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("store must not be nil")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	if err := storage.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	m := &Manager{
		store:     store,
		policy:    policy,
		storage:   storage,
		rateLimit: model.DefaultRateLimit(),
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.rateLimit.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit: %w", err)
	}
	m.limiter = NewLimiter(m.rateLimit)
	m.log = m.log.With().Str("key", storage.StorageKey).Logger()
	return m, nil
}

// Initialize loads saved state and starts the auto-save timer.
// Calling it more than once is a no-op.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.mu.Unlock()

	m.LoadSavedState(ctx)
	if m.storage.AutoSaveInterval > 0 {
		m.startAutoSave()
	}
}

// AddPoints scores result, applies rate limiting, and returns the points credited.
func (m *Manager) AddPoints(result model.MatchResult) (int, error) {
	raw, err := Calculate(result, m.policy)
	if err != nil {
		return 0, &scoreerrors.Error{Code: scoreerrors.CodeCalculation, Message: "Failed to add points", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	earned := m.limiter.Allow(m.now(), raw)
	if earned < raw {
		m.log.Debug().Int("calculated", raw).Int("credited", earned).Msg("rate limit reduced award")
	}
	m.currentPoints += earned
	if m.currentPoints > model.MaxPoints {
		m.currentPoints = model.MaxPoints
	}
	if m.currentPoints > m.highScore {
		m.highScore = m.currentPoints
	}
	return earned, nil
}

// CurrentPoints returns the session score.
func (m *Manager) CurrentPoints() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPoints
}

// HighScore returns the all-time high score.
func (m *Manager) HighScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highScore
}

// Snapshot returns the in-memory state stamped with the current time.
func (m *Manager) Snapshot() model.PointsState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.PointsState{
		CurrentPoints: m.currentPoints,
		HighScore:     m.highScore,
		LastUpdated:   m.now(),
	}
}

// ResetSession zeroes the session score. The high score is kept and nothing is persisted.
func (m *Manager) ResetSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPoints = 0
}

// SaveState persists the current totals.
func (m *Manager) SaveState(ctx context.Context) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	return m.store.Save(ctx, m.Snapshot())
}

// LoadSavedState replaces the in-memory totals with the stored ones.
// Failures leave the manager at zero and are only logged.
func (m *Manager) LoadSavedState(ctx context.Context) {
	state, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to load saved points; starting from zero")
		state = model.ZeroState(m.now())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPoints = state.CurrentPoints
	m.highScore = state.HighScore
}

// ClearAllData clears the store and zeroes both scores.
// The in-memory reset happens even when the store fails.
func (m *Manager) ClearAllData(ctx context.Context) error {
	m.saveMu.Lock()
	err := m.store.Clear(ctx)
	m.saveMu.Unlock()

	m.mu.Lock()
	m.currentPoints = 0
	m.highScore = 0
	m.mu.Unlock()
	return err
}

// Cleanup stops auto-save and makes a final save. It never fails.
func (m *Manager) Cleanup(ctx context.Context) {
	m.stopAutoSaveTimer()
	if err := m.SaveState(ctx); err != nil {
		m.log.Error().Err(err).Msg("final save failed during cleanup")
	}
}

func (m *Manager) startAutoSave() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.mu.Lock()
	m.stopAutoSave = cancel
	m.autoSaveDone = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.storage.AutoSaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.SaveState(ctx); err != nil {
					m.log.Warn().Err(err).Msg("auto-save failed")
					continue
				}
				m.log.Debug().Msg("auto-saved points")
			}
		}
	}()
}

func (m *Manager) stopAutoSaveTimer() {
	m.mu.Lock()
	cancel := m.stopAutoSave
	done := m.autoSaveDone
	m.stopAutoSave = nil
	m.autoSaveDone = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
