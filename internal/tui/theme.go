package tui

import "github.com/charmbracelet/lipgloss"

var (
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 2)

	Banner   = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Equation = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(1, 0)
	Muted    = lipgloss.NewStyle().Foreground(Subtext0)
	Success  = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Failure  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Warning  = lipgloss.NewStyle().Foreground(Peach)
)
