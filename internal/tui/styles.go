package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	tabActive      = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#8BE9FD"))
	tabInactive    = lipgloss.NewStyle().Faint(true)
	tabSeparator   = lipgloss.NewStyle().Faint(true).Render(" │ ")
	sectionTitle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	helpBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#BD93F9")).Padding(0, 1)
	helpBoxTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9"))
	helpKeyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F1FA8C"))
	helpLabelStyle = lipgloss.NewStyle()
)
