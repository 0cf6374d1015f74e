// Package tui provides the Bubble Tea scoreboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mugshot/internal/session"
)

const flashDuration = 900 * time.Millisecond

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type flashExpiredMsg struct {
	id int
}

type saveDoneMsg struct {
	err error
}

// Model binds a session's points to a scoreboard.
type Model struct {
	ctx     context.Context
	session *session.Session
	keys    keyMap
	help    help.Model

	width  int
	height int

	flash   string
	flashID int

	status    string
	statusErr bool
}

// NewModel constructs a scoreboard for s.
func NewModel(ctx context.Context, s *session.Session) *Model {
	return &Model{
		ctx:     ctx,
		session: s,
		keys:    defaultKeyMap(),
		help:    help.New(),
		status:  "Match the mugshot to the crime.",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil
	case saveDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			m.setStatus("Saved.")
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Correct):
		return m, m.guess(true)
	case key.Matches(msg, m.keys.Wrong):
		return m, m.guess(false)
	case key.Matches(msg, m.keys.Reset):
		if err := m.session.End(m.ctx); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus("New session started.")
		}
		m.flash = ""
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.setStatus("Saving...")
		return m, m.save()
	}
	return m, nil
}

func (m *Model) guess(correct bool) tea.Cmd {
	out, err := m.session.Guess(correct)
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	if !out.Correct {
		m.setStatus(fmt.Sprintf("Wrong match. Attempt %d.", m.session.Attempts()))
		return nil
	}
	m.setStatus(fmt.Sprintf("Correct on attempt %d.", out.Attempts))
	return m.showFlash(out.Earned)
}

func (m *Model) showFlash(earned int) tea.Cmd {
	m.flashID++
	m.flash = fmt.Sprintf("+%d", earned)
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (m *Model) save() tea.Cmd {
	ctx := m.ctx
	points := m.session.Points
	return func() tea.Msg {
		return saveDoneMsg{err: points.SaveState(ctx)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// View implements tea.Model.
func (m *Model) View() string {
	board := m.renderScoreboard()
	lines := []string{board, flashStyle.Render(m.flash), m.renderStatus(), m.help.View(m.keys)}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderScoreboard() string {
	points := m.session.Points
	cards := []string{
		renderCard("Points", points.CurrentPoints()),
		renderCard("Best", points.HighScore()),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title string, value int) string {
	body := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(fmt.Sprintf("%d", value))
	return cardStyle.Render(body)
}

func (m *Model) renderStatus() string {
	status := strings.TrimSpace(m.status)
	if m.width > 4 {
		status = runewidth.Truncate(status, m.width-2, "…")
	}
	if m.statusErr {
		return errorStyle.Render(status)
	}
	return statusStyle.Render(status)
}
