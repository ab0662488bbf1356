package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/calmday/internal/sensory"
)

// Palette
var (
	Calm        = lipgloss.Color("#4db6ac") // teal
	Neutral     = lipgloss.Color("#ffd54f") // yellow
	Stimulating = lipgloss.Color("#e57373") // orange
	Accent      = lipgloss.Color("#2196F3")
	Muted       = lipgloss.Color("#6b7280")
)

// Styles holds the rendering styles for the shell
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Pane     lipgloss.Style
	Focused  lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Speaking lipgloss.Style
	Hint     lipgloss.Style
	Notice   lipgloss.Style
	Warn     lipgloss.Style
	Option   lipgloss.Style
	Chosen   lipgloss.Style
}

// DefaultStyles returns the standard styles
func DefaultStyles() Styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Header:   lipgloss.NewStyle().Bold(true),
		Pane:     pane,
		Focused:  pane.BorderForeground(Accent),
		Card:     lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Accent),
		Speaking: lipgloss.NewStyle().Bold(true).Underline(true),
		Hint:     lipgloss.NewStyle().Foreground(Muted),
		Notice:   lipgloss.NewStyle().Foreground(Accent).Italic(true),
		Warn:     lipgloss.NewStyle().Foreground(Stimulating),
		Option:   lipgloss.NewStyle().PaddingLeft(2),
		Chosen:   lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(Accent),
	}
}

// BandColor returns the card colour for a sensory band
func BandColor(b sensory.Band) lipgloss.Color {
	switch b {
	case sensory.BandCalming:
		return Calm
	case sensory.BandStimulating:
		return Stimulating
	default:
		return Neutral
	}
}
