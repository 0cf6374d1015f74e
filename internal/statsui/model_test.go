package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mugshot/internal/model"
)

type fakeLister struct {
	sessions []model.SessionRecord
	err      error
	lastCfg  model.StatsConfig
}

func (f *fakeLister) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	f.lastCfg = cfg
	return f.sessions, f.err
}

func sampleSessions() []model.SessionRecord {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	return []model.SessionRecord{
		{ID: 1, StartedAt: start, EndedAt: start.Add(time.Minute), Points: 150, Correct: 1},
		{ID: 2, StartedAt: start.Add(time.Hour), EndedAt: start.Add(time.Hour + 2*time.Minute), Points: 425, Correct: 3, Incorrect: 2},
	}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewShowsSummaryCards(t *testing.T) {
	m := sized(NewModel(&fakeLister{sessions: sampleSessions()}, model.StatsConfig{Window: 1}))
	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "425", "Points trend"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestSessionsTabListsNewestFirst(t *testing.T) {
	m := sized(NewModel(&fakeLister{sessions: sampleSessions()}, model.StatsConfig{Window: 1}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSessions {
		t.Fatalf("expected sessions tab, got %d", m.activeTab)
	}
	rows := m.sessions.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "425" {
		t.Fatalf("expected newest session first, got %v", rows[0])
	}
}

func TestWindowKeysReloadReport(t *testing.T) {
	src := &fakeLister{sessions: sampleSessions()}
	m := sized(NewModel(src, model.StatsConfig{Window: 1}))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.Window() != 5 || src.lastCfg.Window != 5 {
		t.Fatalf("expected window 5, got model=%d lister=%d", m.Window(), src.lastCfg.Window)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.Window() != 1 {
		t.Fatalf("expected window 1, got %d", m.Window())
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	m := sized(NewModel(&fakeLister{err: errors.New("disk gone")}, model.StatsConfig{}))
	view := m.View()
	if !strings.Contains(view, "Failed to load stats.") || !strings.Contains(view, "disk gone") {
		t.Fatalf("expected load error in view:\n%s", view)
	}
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(&fakeLister{}, model.StatsConfig{}))
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty message")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(&fakeLister{}, model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
