// Package theme bundles the transcript's styles and composes the
// collapsed thinking headers. A nil *Theme is always valid and
// produces unstyled text, so rendering never depends on a theme being
// present.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mull-sh/mull/internal/ui"
)

// Theme holds the styles the transcript view draws with.
type Theme struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Thinking  lipgloss.Style
	Chevron   lipgloss.Style
	Tool      lipgloss.Style
	Timer     lipgloss.Style
	Dim       lipgloss.Style
}

// Default returns the built-in palette.
func Default() *Theme {
	return &Theme{
		User:      ui.UserHeaderStyle,
		Assistant: ui.AssistantHeaderStyle,
		System:    ui.SystemHeaderStyle,
		Thinking:  ui.ThinkingStyle,
		Chevron:   ui.ChevronStyle,
		Tool:      ui.ToolStyle,
		Timer:     ui.TimerStyle,
		Dim:       ui.DimStyle,
	}
}

// FromColors builds a theme from hex overrides. Empty values keep the
// default palette.
func FromColors(accent, dim, timer string) *Theme {
	t := Default()
	if accent != "" {
		c := lipgloss.Color(accent)
		t.Assistant = t.Assistant.Foreground(c)
		t.User = t.User.Foreground(c)
	}
	if dim != "" {
		c := lipgloss.Color(dim)
		t.Thinking = t.Thinking.Foreground(c)
		t.Dim = t.Dim.Foreground(c)
		t.Chevron = t.Chevron.Foreground(c)
	}
	if timer != "" {
		t.Timer = t.Timer.Foreground(lipgloss.Color(timer))
	}
	return t
}

// RoleStyle returns the header style for a speaker.
func (t *Theme) RoleStyle(role string) lipgloss.Style {
	if t == nil {
		return lipgloss.NewStyle()
	}
	switch role {
	case "user":
		return t.User
	case "assistant":
		return t.Assistant
	default:
		return t.System
	}
}

// ThinkingIdle is the collapsed header text before any timing is
// known.
func (t *Theme) ThinkingIdle() string {
	if t == nil {
		return ui.CollapsedMarker
	}
	return t.Thinking.Render(ui.CollapsedMarker)
}

// ThinkingActive composes the collapsed header for a segment that is
// still running.
func (t *Theme) ThinkingActive(elapsed string) string {
	if t == nil {
		return ui.CollapsedMarker + " " + elapsed
	}
	return t.Thinking.Render(ui.CollapsedMarker) + " " + t.Timer.Render(elapsed)
}

// ThinkingDone composes the collapsed header once a segment has a
// final duration.
func (t *Theme) ThinkingDone(elapsed string) string {
	if t == nil {
		return "Thought for " + elapsed
	}
	return t.Thinking.Render("Thought for") + " " + t.Timer.Render(elapsed)
}

// ThinkingBody returns the style for expanded thinking text.
func (t *Theme) ThinkingBody() lipgloss.Style {
	if t == nil {
		return lipgloss.NewStyle()
	}
	return t.Thinking
}

// ChevronStyle returns the style for the expand/collapse chevron.
func (t *Theme) ChevronStyle() lipgloss.Style {
	if t == nil {
		return lipgloss.NewStyle()
	}
	return t.Chevron
}

// ToolStyle returns the style for tool output blocks.
func (t *Theme) ToolStyle() lipgloss.Style {
	if t == nil {
		return lipgloss.NewStyle()
	}
	return t.Tool
}
