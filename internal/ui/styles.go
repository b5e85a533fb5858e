package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorGreen   = lipgloss.Color("#00FF87")
	ColorCyan    = lipgloss.Color("#00D7FF")
	ColorYellow  = lipgloss.Color("#FFD700")
	ColorRed     = lipgloss.Color("#FF5F5F")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF87FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	UserHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	AssistantHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	SystemHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGray)

	ThinkingStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	ChevronStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ToolStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	TimerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ConnectedDotStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	DisconnectedDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ScrollBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	ReplayBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)
)
