// Package ui holds the shared styles and the renderable elements a
// message breaks into.
package ui

import "github.com/charmbracelet/lipgloss"

// CollapsedMarker appears in the header line of every thinking block.
// The timer binder rewrites only elements whose current text contains
// it, so other settable elements are never touched by mistake.
const CollapsedMarker = "Thinking…"

// Element is one renderable block of a message.
type Element interface {
	Lines() []string
}

// TextSetter is the optional capability of elements whose text the
// thinking-timer binder may rewrite in place.
type TextSetter interface {
	Text() string
	SetText(string)
}

// RoleHeader is the speaker line above a message.
type RoleHeader struct {
	label string
	style lipgloss.Style
}

// NewRoleHeader builds a header line for the given speaker label.
func NewRoleHeader(label string, style lipgloss.Style) *RoleHeader {
	return &RoleHeader{label: label, style: style}
}

func (h *RoleHeader) Lines() []string {
	return []string{h.style.Render(h.label)}
}

// TextBlock is a fixed run of pre-rendered lines. Markdown output
// arrives here already styled, in which case the style is a no-op.
type TextBlock struct {
	lines []string
	style lipgloss.Style
}

// NewTextBlock builds a block from pre-wrapped lines.
func NewTextBlock(lines []string, style lipgloss.Style) *TextBlock {
	return &TextBlock{lines: lines, style: style}
}

func (b *TextBlock) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = b.style.Render(l)
	}
	return out
}

// ThinkingBlock is a collapsible thinking segment. The header line
// carries the elapsed-time label the binder rewrites; the body shows
// the thinking text when expanded. The chevron lives outside the
// settable text so expansion never disturbs the timer label.
type ThinkingBlock struct {
	text      string
	body      []string
	Expanded  bool
	Selected  bool
	chevron   lipgloss.Style
	bodyStyle lipgloss.Style
}

// NewThinkingBlock builds a collapsed thinking element with the given
// header text and pre-wrapped body lines.
func NewThinkingBlock(header string, body []string, chevron, bodyStyle lipgloss.Style) *ThinkingBlock {
	return &ThinkingBlock{text: header, body: body, chevron: chevron, bodyStyle: bodyStyle}
}

// Text returns the current header text.
func (b *ThinkingBlock) Text() string { return b.text }

// SetText replaces the header text. Called by the timer binder.
func (b *ThinkingBlock) SetText(s string) { b.text = s }

func (b *ThinkingBlock) Lines() []string {
	chev := "▸"
	if b.Expanded {
		chev = "▾"
	}
	mark := "  "
	if b.Selected {
		mark = b.chevron.Render("❯") + " "
	}
	lines := []string{mark + b.chevron.Render(chev) + " " + b.text}
	if b.Expanded {
		for _, l := range b.body {
			lines = append(lines, "  "+b.bodyStyle.Render(l))
		}
	}
	return lines
}
