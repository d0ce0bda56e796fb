// Package ui provides terminal output styling and small interactive widgets.
package ui

import "github.com/charmbracelet/lipgloss"

// Colour constants for drydock terminal output.
const (
	primaryColor = "#7C3AED" // Purple
	successColor = "#10B981" // Green
	warningColor = "#F59E0B" // Amber
	errorColor   = "#EF4444" // Red
	dimColor     = "#6B7280" // Gray
)

// Style variables for consistent rendering.
var (
	// TitleStyle renders titles in primary colour with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(successColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// URLStyle renders links underlined in primary colour.
	URLStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Underline(true)

	// BoxStyle provides a rounded border box for plan summaries.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)
)
