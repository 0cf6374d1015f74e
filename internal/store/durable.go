package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/scoreerrors"
)

// Backend is a string key/value store with localStorage semantics.
type Backend interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem writes value under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// DurableOption configures a Durable store.
type DurableOption func(*Durable)

// WithDurableLogger sets the logger for discarded records.
func WithDurableLogger(logger zerolog.Logger) DurableOption {
	return func(d *Durable) {
		d.log = logger
	}
}

// WithDurableClock overrides time.Now.
func WithDurableClock(now func() time.Time) DurableOption {
	return func(d *Durable) {
		d.now = now
	}
}

// Durable stores points as one JSON record per key in a Backend.
type Durable struct {
	backend Backend
	key     string
	log     zerolog.Logger
	now     func() time.Time
}

// NewDurable returns a durable store writing under key.
func NewDurable(backend Backend, key string, opts ...DurableOption) (*Durable, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend must not be nil")
	}
	if key == "" {
		return nil, fmt.Errorf("storage key must not be empty")
	}
	d := &Durable{
		backend: backend,
		key:     key,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Key returns the storage key.
func (d *Durable) Key() string {
	return d.key
}

// Save repairs what it safely can and writes the record. Out-of-range scores
// clear the key and fail.
func (d *Durable) Save(ctx context.Context, state model.PointsState) error {
	if err := validateBounds(state); err != nil {
		if rerr := d.backend.RemoveItem(ctx, d.key); rerr != nil {
			d.log.Warn().Err(rerr).Msg("failed to clear points after rejected save")
		}
		return scoreerrors.Storage("refusing to save invalid points", err)
	}
	now := d.now()
	if state.HighScore < state.CurrentPoints {
		state.HighScore = state.CurrentPoints
	}
	if validateTimestamp(state.LastUpdated, now) != nil {
		state.LastUpdated = now
	}
	value, err := encodeState(state)
	if err != nil {
		if rerr := d.backend.RemoveItem(ctx, d.key); rerr != nil {
			d.log.Warn().Err(rerr).Msg("failed to clear points after encode failure")
		}
		return scoreerrors.Storage("failed to encode points", err)
	}
	if err := d.backend.SetItem(ctx, d.key, value); err != nil {
		return scoreerrors.Storage("failed to write points", err)
	}
	return nil
}

// Load returns the stored state. Anything unreadable is cleared and replaced
// by the zero state; only context cancellation is returned as an error.
func (d *Durable) Load(ctx context.Context) (model.PointsState, error) {
	now := d.now()
	raw, ok, err := d.backend.GetItem(ctx, d.key)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return model.PointsState{}, err
		}
		d.log.Warn().Err(err).Msg("points storage unavailable; using zero state")
		d.discard(ctx)
		return model.ZeroState(now), nil
	}
	if !ok {
		return model.ZeroState(now), nil
	}
	state, err := decodeState(raw, now)
	if err != nil {
		d.log.Warn().Err(err).Msg("discarding stored points")
		d.discard(ctx)
		return model.ZeroState(now), nil
	}
	return state, nil
}

// Clear removes the record.
func (d *Durable) Clear(ctx context.Context) error {
	if err := d.backend.RemoveItem(ctx, d.key); err != nil {
		return scoreerrors.Storage("failed to clear points", err)
	}
	return nil
}

func (d *Durable) discard(ctx context.Context) {
	if err := d.backend.RemoveItem(ctx, d.key); err != nil {
		d.log.Warn().Err(err).Msg("failed to clear stored points")
	}
}
