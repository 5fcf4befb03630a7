package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/jarlaunch/internal/modes"
)

// KeyMap holds the bindings the picker reacts to. Any key outside these
// bindings is ignored.
type KeyMap struct {
	Modes map[modes.Mode]key.Binding
	Quit  key.Binding
}

// DefaultKeyMap binds each mode to its menu digit.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Modes: make(map[modes.Mode]key.Binding, len(modes.All())),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
	for _, m := range modes.All() {
		km.Modes[m] = key.NewBinding(
			key.WithKeys(m.Key()),
			key.WithHelp(m.Key(), m.Title()),
		)
	}
	return km
}

// Match returns the mode bound to msg, if any.
func (km KeyMap) Match(msg tea.KeyMsg) (modes.Mode, bool) {
	for _, m := range modes.All() {
		if binding, ok := km.Modes[m]; ok && key.Matches(msg, binding) {
			return m, true
		}
	}
	return 0, false
}
