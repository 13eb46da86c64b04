package commands

import "github.com/charmbracelet/lipgloss"

// Styles used by every command that talks to a terminal.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Default lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		Label:   lipgloss.NewStyle().Bold(true),
		Default: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}
