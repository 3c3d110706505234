package main

import "github.com/charmbracelet/lipgloss"

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for fatal errors.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	FailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	// SummaryStyle for the final line of a run.
	SummaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
)
