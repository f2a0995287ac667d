package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeeftor/automaton/internal/styles"
)

// Common TUI styles using the centralized styles package
var (
	TitleStyle   = styles.TitleStyle
	ErrorStyle   = styles.ErrorStyle
	WarningStyle = styles.WarningStyle
	InfoStyle    = styles.InfoStyle
	MutedStyle   = styles.MutedStyle
	BoxStyle     = styles.BoxStyle
	BoldStyle    = styles.BoldStyle
)

// Additional TUI-specific styles
var (
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Highlight)).
			Bold(true)

	UptimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.TextMuted))
)

// TUIRenderer provides common rendering functions for TUI models
type TUIRenderer struct {
	width  int
	height int
}

// NewTUIRenderer creates a new TUI renderer
func NewTUIRenderer(width, height int) *TUIRenderer {
	return &TUIRenderer{
		width:  width,
		height: height,
	}
}

// UpdateDimensions updates the renderer dimensions
func (r *TUIRenderer) UpdateDimensions(width, height int) {
	r.width = width
	r.height = height
}

// RenderTitle renders a consistent title bar
func (r *TUIRenderer) RenderTitle(title string) string {
	if r.width <= 0 {
		return TitleStyle.Render(title)
	}

	padding := (r.width - lipgloss.Width(title)) / 2
	if padding < 0 {
		padding = 0
	}
	return TitleStyle.Width(r.width).Render(strings.Repeat(" ", padding) + title)
}

// RenderStatus renders the job status line
func (r *TUIRenderer) RenderStatus(info StatusInfo) string {
	var parts []string

	if info.Script != "" {
		parts = append(parts, fmt.Sprintf("Script: %s", HighlightStyle.Render(info.Script)))
	}
	if info.Status != "" {
		parts = append(parts, fmt.Sprintf("State: %s", styles.ForState(info.Status).Render(info.Status)))
	}
	parts = append(parts, fmt.Sprintf("Elapsed: %s", UptimeStyle.Render(formatDuration(info.Elapsed))))

	if info.LastAction != "" && !info.ActionTime.IsZero() {
		parts = append(parts, fmt.Sprintf("Last: %s (%s ago)",
			info.LastAction, formatDuration(time.Since(info.ActionTime))))
	}

	return strings.Join(parts, " | ")
}

// RenderBox renders content in a box with optional title
func (r *TUIRenderer) RenderBox(content string, title string, width int) string {
	boxStyle := BoxStyle
	if width > 0 {
		boxStyle = boxStyle.Width(width)
	}
	if title != "" {
		content = BoldStyle.Render(title) + "\n" + content
	}
	return boxStyle.Render(content)
}

// RenderKeyHelp renders bindings as a one-line hint
func (r *TUIRenderer) RenderKeyHelp(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, HighlightStyle.Render(h.Key)+" "+h.Desc)
	}
	return strings.Join(hints, "  ")
}

// RenderFooter renders a consistent footer
func (r *TUIRenderer) RenderFooter(leftContent, rightContent string) string {
	if r.width <= 0 {
		return fmt.Sprintf("%s | %s", leftContent, rightContent)
	}

	spacing := r.width - lipgloss.Width(leftContent) - lipgloss.Width(rightContent)
	if spacing < 3 {
		spacing = 3
	}
	return MutedStyle.Render(leftContent + strings.Repeat(" ", spacing) + rightContent)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int((d % time.Hour).Minutes())
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
