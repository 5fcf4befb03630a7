// internal/tui/app.go
//
// Bubbletea models for the two interactive moments of a launch:
// picking a processing mode and acknowledging the final message.
//
// Both follow The Elm Architecture: Update reacts to key messages,
// View renders the current state, tea.Quit ends the program.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jarlaunch/internal/modes"
)

// ErrCancelled is returned when the user aborts the mode prompt with ctrl+c.
var ErrCancelled = errors.New("mode selection cancelled")

// ModePicker asks for a single keypress among the mode digits.
type ModePicker struct {
	folder    string
	keys      KeyMap
	styles    Styles
	selected  modes.Mode
	cancelled bool
}

// NewModePicker builds the picker for the given target folder.
func NewModePicker(folder string) ModePicker {
	return ModePicker{
		folder: folder,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
	}
}

// Selected returns the chosen mode once the program has quit.
func (p ModePicker) Selected() (modes.Mode, bool) {
	return p.selected, p.selected.Valid()
}

// Cancelled reports whether the user aborted.
func (p ModePicker) Cancelled() bool { return p.cancelled }

// Init implements tea.Model.
func (p ModePicker) Init() tea.Cmd { return nil }

// Update implements tea.Model. Keys other than the mode digits and the quit
// binding
// leave the model untouched.
func (p ModePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if m, ok := p.keys.Match(keyMsg); ok {
		p.selected = m
		return p, tea.Quit
	}
	if key.Matches(keyMsg, p.keys.Quit) {
		p.cancelled = true
		return p, tea.Quit
	}
	return p, nil
}

// View implements tea.Model.
func (p ModePicker) View() string {
	if m, ok := p.Selected(); ok {
		return fmt.Sprintf("%s %s\n", p.styles.Muted.Render("Selected:"), p.styles.Option.Render(m.Title()))
	}
	if p.cancelled {
		return p.styles.Warn.Render("Cancelled.") + "\n"
	}
	var b strings.Builder
	b.WriteString(p.styles.Muted.Render("Folder: "+p.folder) + "\n\n")
	b.WriteString("Choose a processing mode:\n")
	for _, m := range modes.All() {
		line := fmt.Sprintf("  %s %s", p.styles.Key.Render("["+m.Key()+"]"), p.styles.Option.Render(m.Title()))
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, line, "      "+p.styles.Desc.Render(m.Description())))
		b.WriteString("\n")
	}
	b.WriteString("\n" + p.styles.Muted.Render("Press 1, 2 or 3."))
	return p.styles.Box.Render(b.String()) + "\n"
}

// PausePrompt shows a message and waits for any key.
type PausePrompt struct {
	message string
	styles  Styles
	done    bool
}

// NewPausePrompt builds a pause with the given message.
func NewPausePrompt(message string) PausePrompt {
	if strings.TrimSpace(message) == "" {
		message = "Press any key to continue . . ."
	}
	return PausePrompt{message: message, styles: DefaultStyles()}
}

// Done reports whether a key was received.
func (p PausePrompt) Done() bool { return p.done }

// Init implements tea.Model.
func (p PausePrompt) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (p PausePrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

// View implements tea.Model.
func (p PausePrompt) View() string {
	if p.done {
		return ""
	}
	return p.styles.Muted.Render(p.message) + "\n"
}
