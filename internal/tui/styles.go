package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#5B8DEF")
	danger  = lipgloss.Color("#FF6B6B")
	success = lipgloss.Color("#4CAF50")
	warn    = lipgloss.Color("#F7B801")
	muted   = lipgloss.Color("#888888")
)

// Styles groups the lipgloss styles used for launcher output.
type Styles struct {
	Title   lipgloss.Style
	Key     lipgloss.Style
	Option  lipgloss.Style
	Desc    lipgloss.Style
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}

// DefaultStyles returns the launcher palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Key:     lipgloss.NewStyle().Bold(true).Foreground(warn),
		Option:  lipgloss.NewStyle().Bold(true),
		Desc:    lipgloss.NewStyle().Foreground(muted),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(danger),
		Warn:    lipgloss.NewStyle().Foreground(warn),
		Success: lipgloss.NewStyle().Bold(true).Foreground(success),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
	}
}

// Banner renders a framed title line.
func (s Styles) Banner(title string) string {
	sep := strings.Repeat("─", lipgloss.Width(title)+2)
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Muted.Render(sep),
		s.Title.Render("▶ "+title),
		s.Muted.Render(sep),
	)
}
