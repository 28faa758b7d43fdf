package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the watch UI
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - healthy CO2 levels
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, high CO2
	WarningColor = lipgloss.Color("#FFA500") // Orange - elevated CO2
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MaxContentWidth  = 80 // Maximum content width before capping
)

// CO2 concentration thresholds in ppm, roughly following the common
// indoor air quality bands (outdoor air is ~420 ppm).
const (
	CO2WarnPPM = 800
	CO2HighPPM = 1200
)

// Shared styles for the watch UI
var (
	// TitleStyle is for the dashboard title line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(2)

	// StatusStyle is for the connection status line
	StatusStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2)

	// LabelStyle is for reading labels (e.g., "CO2:")
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2).
			Width(16)

	// ValueStyle is for reading values when no threshold applies
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// PendingStyle is for quantities the device has not reported yet
	PendingStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// ErrorStyle is for the transient error line
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(2)

	// HelpStyle is for the key hint footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2)
)

// CO2ValueStyle returns the style for a CO2 value based on its level.
func CO2ValueStyle(ppm int) lipgloss.Style {
	switch {
	case ppm >= CO2HighPPM:
		return lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	case ppm >= CO2WarnPPM:
		return lipgloss.NewStyle().Foreground(WarningColor)
	default:
		return lipgloss.NewStyle().Foreground(SuccessColor)
	}
}

// BorderStyle returns the border style for the dashboard box
func BorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsTerminal reports whether stdout is attached to a terminal. The
// interactive watch view requires one.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
