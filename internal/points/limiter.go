package points

import (
	"time"

	"github.com/verte-zerg/mugshot/internal/model"
)

type ledgerEntry struct {
	at     time.Time
	points int
}

// Limiter caps the points credited within a sliding time window.
// It is not safe for concurrent use; Manager serializes access.
type Limiter struct {
	window time.Duration
	cap    int
	ledger []ledgerEntry
}

// NewLimiter returns a limiter for the given window and cap.
func NewLimiter(limit model.RateLimit) *Limiter {
	return &Limiter{window: limit.Window, cap: limit.Cap}
}

// Allow returns how many of points may be credited at now and records the award.
func (l *Limiter) Allow(now time.Time, points int) int {
	l.evict(now)
	if points <= 0 {
		return 0
	}
	sum := l.windowSum()
	awarded := points
	if sum+points > l.cap {
		awarded = points * l.cap / (sum + points)
		if headroom := l.cap - sum; awarded > headroom {
			awarded = headroom
		}
		if awarded < 0 {
			awarded = 0
		}
	}
	if awarded > 0 {
		l.ledger = append(l.ledger, ledgerEntry{at: now, points: awarded})
	}
	return awarded
}

// WindowTotal returns the points credited within the window ending at now.
func (l *Limiter) WindowTotal(now time.Time) int {
	l.evict(now)
	return l.windowSum()
}

// Reset drops the ledger.
func (l *Limiter) Reset() {
	l.ledger = nil
}

func (l *Limiter) windowSum() int {
	sum := 0
	for _, e := range l.ledger {
		sum += e.points
	}
	return sum
}

func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	keep := 0
	for keep < len(l.ledger) && !l.ledger[keep].at.After(cutoff) {
		keep++
	}
	if keep > 0 {
		l.ledger = append(l.ledger[:0], l.ledger[keep:]...)
	}
}
