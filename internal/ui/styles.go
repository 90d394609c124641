package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7931A"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#F7931A"))
	selectorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeSelStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	positiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	negativeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	errorToast     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	successToast   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
)
