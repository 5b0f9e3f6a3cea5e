// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Variable names omit a "Style" suffix since they're accessed via the
// package (style.Title rather than style.TitleStyle).
var (
	// Title is used for the app header and the active section heading.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text and info status lines.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Success is used for completed sections and the final download link.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for error status lines.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for validation hints.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Viewport frames script text.
	Viewport = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Label is used for form labels ("Theme:", "API key:").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// FocusedLabel marks the form field that has focus.
	FocusedLabel = Label.
			Foreground(lipgloss.Color("205"))

	// Muted is used for disabled sections and file paths.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Section frames the body of the active section.
	Section = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("205")).
		PaddingLeft(1)

	// InertSection frames the body of sections that are done or waiting.
	InertSection = Section.
			BorderForeground(lipgloss.Color("238"))
)
