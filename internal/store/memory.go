package store

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

// Memory is a process-local points store. It rejects invalid state instead of
// repairing it, and is the fallback when durable storage is unavailable.
type Memory struct {
	mu    sync.Mutex
	state model.PointsState
	now   func() time.Time
}

// NewMemory returns a store holding the zero state.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns a store that validates timestamps against now.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{state: model.ZeroState(now()), now: now}
}

// Save stores a copy of state after validating it.
func (m *Memory) Save(ctx context.Context, state model.PointsState) error {
	if err := ctx.Err(); err != nil {
		return scoreerrors.Storage("save cancelled", err)
	}
	if err := ValidateState(state, m.now()); err != nil {
		return scoreerrors.Storage("refusing to save invalid points", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

// Load returns a copy of the stored state.
func (m *Memory) Load(ctx context.Context) (model.PointsState, error) {
	if err := ctx.Err(); err != nil {
		return model.PointsState{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ValidateState(m.state, m.now()); err != nil {
		m.state = model.ZeroState(m.now())
	}
	return m.state, nil
}

// Clear resets the stored state to zero.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return scoreerrors.Storage("clear cancelled", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.ZeroState(m.now())
	return nil
}
