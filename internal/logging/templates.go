package logging

import "fmt"

// LogTemplate represents a logging template with standardized emoji and formatting
type LogTemplate struct {
	emoji  string
	prefix string
	level  LogLevel
}

// LogLevel represents the logging level for templates
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelSuccess
	LevelWarn
	LevelError
	LevelDebug
)

// Common logging templates with standardized emojis and formats
var (
	WaitTemplate       = LogTemplate{emoji: "⏳", prefix: "Waiting for", level: LevelInfo}
	ScreenshotTemplate = LogTemplate{emoji: "📸", prefix: "Captured", level: LevelSuccess}
	SearchTemplate     = LogTemplate{emoji: "🔍", prefix: "Searching for", level: LevelDebug}
	FoundTemplate      = LogTemplate{emoji: "✓", prefix: "Found", level: LevelSuccess}
	NotFoundTemplate   = LogTemplate{emoji: "✗", prefix: "Not found", level: LevelWarn}
	ClickTemplate      = LogTemplate{emoji: "🖱️", prefix: "Clicked", level: LevelInfo}

	RecordTemplate   = LogTemplate{emoji: "⏺", prefix: "Recording", level: LevelInfo}
	ReplayTemplate   = LogTemplate{emoji: "▶", prefix: "Replaying", level: LevelInfo}
	SaveTemplate     = LogTemplate{emoji: "💾", prefix: "Saved", level: LevelSuccess}
	LoadTemplate     = LogTemplate{emoji: "📂", prefix: "Loading", level: LevelDebug}
	StartTemplate    = LogTemplate{emoji: "🚀", prefix: "Starting", level: LevelInfo}
	StopTemplate     = LogTemplate{emoji: "🛑", prefix: "Stopping", level: LevelInfo}
	CompleteTemplate = LogTemplate{emoji: "✓", prefix: "Completed", level: LevelSuccess}
	FailTemplate     = LogTemplate{emoji: "✗", prefix: "Failed", level: LevelError}
)

// Format formats the template with the provided message
func (t LogTemplate) Format(message string) string {
	if t.prefix != "" {
		return fmt.Sprintf("%s %s: %s", t.emoji, t.prefix, message)
	}
	return fmt.Sprintf("%s %s", t.emoji, message)
}

// Log logs the message using the appropriate logging function based on level
func (t LogTemplate) Log(message string) {
	formatted := t.Format(message)
	switch t.level {
	case LevelInfo:
		UserInfof("%s", formatted)
	case LevelSuccess:
		Successf("%s", formatted)
	case LevelWarn:
		UserWarnf("%s", formatted)
	case LevelError:
		UserErrorf("%s", formatted)
	case LevelDebug:
		Debug(formatted)
	}
}

// Logf logs the message using printf-style formatting
func (t LogTemplate) Logf(format string, args ...interface{}) {
	t.Log(fmt.Sprintf(format, args...))
}

// WaitFor logs a wait-until-found operation
func WaitFor(target string, timeout string) {
	WaitTemplate.Logf("%s (timeout: %s)", target, timeout)
}

// SearchFor logs a template search
func SearchFor(target string) {
	SearchTemplate.Logf("%s", target)
}

// Found logs a successful template match
func Found(target string, x, y int, score float64) {
	FoundTemplate.Logf("%s at (%d, %d) score=%.3f", target, x, y, score)
}

// NotFound logs an unsuccessful template match
func NotFound(target string) {
	NotFoundTemplate.Log(target)
}

// Clicked logs a pointer click
func Clicked(button string, x, y int, double bool) {
	kind := "single"
	if double {
		kind = "double"
	}
	ClickTemplate.Logf("%s %s-click at (%d, %d)", kind, button, x, y)
}

// Captured logs a saved screen capture
func Captured(path string) {
	ScreenshotTemplate.Log(path)
}

// SaveFile logs file save operation
func SaveFile(path string, details string) {
	if details != "" {
		SaveTemplate.Logf("%s (%s)", path, details)
	} else {
		SaveTemplate.Log(path)
	}
}

// LoadFile logs file load operation
func LoadFile(path string) {
	LoadTemplate.Log(path)
}

// Start logs process start
func Start(process string) {
	StartTemplate.Log(process)
}

// Stop logs process stop
func Stop(process string) {
	StopTemplate.Log(process)
}

// Complete logs successful completion
func Complete(operation string) {
	CompleteTemplate.Log(operation)
}

// Fail logs operation failure
func Fail(operation string, reason string) {
	if reason != "" {
		FailTemplate.Logf("%s: %s", operation, reason)
	} else {
		FailTemplate.Log(operation)
	}
}
