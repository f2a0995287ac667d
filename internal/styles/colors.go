package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color constants using a consistent palette
const (
	// Primary colors
	Primary     = "#7D56F4"
	PrimaryText = "#FAFAFA"

	// Status colors
	Success = "#04B575"
	Warning = "#FFA500"
	Error   = "#FF6B6B"
	Info    = "#00CED1"

	// Text colors
	Text      = "#FAFAFA"
	TextMuted = "#626262"
	TextBold  = "#90EE90"

	// Special colors
	Highlight = "#FFFF00"
)

// Predefined styles for common use cases
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(PrimaryText)).
			Background(lipgloss.Color(Primary)).
			Padding(0, 1)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Success)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Error)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Warning)).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Info)).
			Bold(true)

	// Text styles
	BoldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextBold)).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextMuted)).
			Italic(true)

	// Box styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Primary)).
			Padding(1, 1).
			Margin(0, 1)

	// Log level styles
	LogErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Error))

	// Config and listing display styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Primary)).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Info)).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Text))

	CodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Primary)).
			Bold(true)
)

// PrintStyled prints text with a lipgloss style to the writer
func PrintStyled(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprint(w, style.Render(text))
}

// PrintStyledln prints text with a lipgloss style and adds a newline
func PrintStyledln(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprintln(w, style.Render(text))
}

// ForState picks the style for a script job state name
func ForState(state string) lipgloss.Style {
	switch state {
	case "running":
		return InfoStyle
	case "completed":
		return SuccessStyle
	case "failed", "killed":
		return ErrorStyle
	case "cancelled":
		return WarningStyle
	default:
		return MutedStyle
	}
}
