package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The editor must stay readable on both light and dark terminal
// backgrounds, so colors are adaptive pairs rather than fixed codes.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "245")
	colorAccent = ac("25", "39")
	colorWarn   = ac("124", "203")

	titleStyle = lipgloss.NewStyle().Bold(true)
	crumbStyle = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	cursorMarkStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dupMarkStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	statusStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle      = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
)

// plainOutput reports whether the terminal can't do color at all, in which
// case markdown rendering falls back to glamour's notty style.
func plainOutput() bool {
	return termenv.EnvColorProfile() == termenv.Ascii
}
