package stats

import (
	"context"

	"github.com/verte-zerg/mugshot/internal/model"
)

// SessionLister lists recorded sessions.
type SessionLister interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
	Summary  Summary
	Window   int
}

// BuildReport loads sessions and summarizes them.
func BuildReport(ctx context.Context, src SessionLister, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := cfg.Window
	if window <= 0 {
		window = 1
	}
	return Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		Window:   window,
	}, nil
}
