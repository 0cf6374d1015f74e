package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Correct key.Binding
	Wrong   key.Binding
	Reset   key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Correct: key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "correct match")),
		Wrong:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "wrong match")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new session")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Correct, k.Wrong, k.Reset, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
