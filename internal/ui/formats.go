package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jeeftor/automaton/internal/styles"
)

// Icons for consistent UI messaging
const (
	SuccessIcon  = "✅"
	ErrorIcon    = "❌"
	InfoIcon     = "ℹ️"
	WarningIcon  = "⚠️"
	ProgressIcon = "⏳"
	ResultIcon   = "📊"
	HeaderIcon   = "🔸"
)

// Output receives every message; swapped out in tests
var Output io.Writer = os.Stdout

// Helper functions for styling specific types of content
func Success(text string) string {
	return styles.SuccessStyle.Render(text)
}

func Error(text string) string {
	return styles.ErrorStyle.Render(text)
}

func Info(text string) string {
	return styles.InfoStyle.Render(text)
}

func Warning(text string) string {
	return styles.WarningStyle.Render(text)
}

func Bold(text string) string {
	return styles.BoldStyle.Render(text)
}

func Muted(text string) string {
	return styles.MutedStyle.Render(text)
}

func Key(text string) string {
	return styles.KeyStyle.Render(text)
}

func Value(text string) string {
	return styles.ValueStyle.Render(text)
}

func Code(text string) string {
	return styles.CodeStyle.Render(text)
}

// StatusMessage formats a status message with consistent styling
func StatusMessage(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(Output, "%s %s\n", SuccessIcon, message)
}

// ErrorMessage formats an error message with consistent styling
func ErrorMessage(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(Output, "%s %s\n", ErrorIcon, Error(message))
}

// InfoMessage formats an informational message with consistent styling
func InfoMessage(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(Output, "%s %s\n", InfoIcon, message)
}

// ScriptMessage announces the script about to run
func ScriptMessage(scriptFile string, lines int) {
	fmt.Fprintf(Output, "📜 Script: %s (%d lines)\n", Code(scriptFile), lines)
}

// JobSummary reports how a script job ended
func JobSummary(id, state string, elapsed time.Duration) {
	icon := SuccessIcon
	switch state {
	case "failed", "killed":
		icon = ErrorIcon
	case "cancelled":
		icon = WarningIcon
	}
	fmt.Fprintf(Output, "%s Job %s %s in %s\n", icon, Bold(id), styles.ForState(state).Render(state),
		elapsed.Round(time.Millisecond))
}

// MatchMessage reports a template match
func MatchMessage(template string, x, y int, score float64) {
	fmt.Fprintf(Output, "%s %s found at (%d, %d) score %s\n",
		SuccessIcon, Bold(template), x, y, Value(fmt.Sprintf("%.3f", score)))
}

// CommandExample formats command usage examples
func CommandExample(command, description string) {
	fmt.Fprintf(Output, "%-40s # %s\n",
		Code(command),
		Muted(description))
}

// SectionHeader formats a section header with styling
func SectionHeader(title string) {
	fmt.Fprintf(Output, "\n%s %s\n", HeaderIcon, Bold(title))
}

// BulletPoint formats a bullet point with consistent styling
func BulletPoint(text string) {
	fmt.Fprintf(Output, "• %s\n", text)
}

// KeyValue prints one aligned setting
func KeyValue(key, value string, width int) {
	fmt.Fprintf(Output, "  %s %s\n", Key(fmt.Sprintf("%-*s", width, key)), Value(value))
}

// ValidationErrorMsg formats validation error messages
func ValidationErrorMsg(line int, message, suggestion string) {
	fmt.Fprintf(Output, "%s line %s: %s\n",
		ErrorIcon,
		Bold(fmt.Sprint(line)),
		Error(message))
	if suggestion != "" {
		fmt.Fprintf(Output, "   %s\n", Muted(suggestion))
	}
}

// ValidationWarningMsg formats validation warning messages
func ValidationWarningMsg(line int, message string) {
	fmt.Fprintf(Output, "%s line %s: %s\n", WarningIcon, Bold(fmt.Sprint(line)), Warning(message))
}

// ResultSummary formats a results summary with keys in sorted order
func ResultSummary(operation string, results map[string]interface{}) {
	fmt.Fprintf(Output, "\n%s %s Summary:\n", ResultIcon, Bold(operation))
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(Output, "  %s: %v\n", Key(k), results[k])
	}
}
