package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	// Minimum level the default handler will emit
	minLevel = new(slog.LevelVar)

	// Default logger instance
	logger *slog.Logger

	// User-facing output (success/info lines printed without level prefix)
	userOut io.Writer = os.Stdout
	userMu  sync.Mutex

	// Colors for different log levels
	infoColor    = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	debugColor   = color.New(color.FgCyan).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// ColorTextHandler is a simple handler that adds colors to log output
type ColorTextHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer) *ColorTextHandler {
	return &ColorTextHandler{w: w, mu: &sync.Mutex{}}
}

// Handle handles the log record
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelText = debugColor("DEBUG")
	case slog.LevelInfo:
		levelText = infoColor("INFO")
	case slog.LevelWarn:
		levelText = warnColor("WARN")
	case slog.LevelError:
		levelText = errorColor("ERROR")
	default:
		levelText = r.Level.String()
	}

	var attrs strings.Builder
	for _, a := range h.attrs {
		attrs.WriteString(" " + a.Key + "=" + formatAttrValue(a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		// Skip the source attribute
		if a.Key == "source" {
			return true
		}
		attrs.WriteString(" " + a.Key + "=" + formatAttrValue(a.Value))
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	// Carriage return first so the line starts clean after spinner output
	_, err := fmt.Fprintf(h.w, "\r%s %s%s\n", levelText, r.Message, attrs.String())
	return err
}

// formatAttrValue formats a slog.Value as a string
func formatAttrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		return fmt.Sprintf("%g", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("15:04:05")
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

// WithAttrs returns a new handler with the given attributes
func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ColorTextHandler{w: h.w, mu: h.mu, attrs: merged}
}

// WithGroup returns a new handler with the given group
func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	return h
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= minLevel.Level()
}

// ParseLevel maps a textual level to a slog level, defaulting to info
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitWithLevel initializes the logger with the specified level name
func InitWithLevel(level string) {
	minLevel.Set(ParseLevel(level))

	handler := NewColorTextHandler(os.Stderr)
	logger = slog.New(handler)
	slog.SetDefault(logger)

	userMu.Lock()
	userOut = os.Stdout
	userMu.Unlock()
}

// Init initializes the logger with debug on or off
func Init(debug bool) {
	if debug {
		InitWithLevel("debug")
		Debug("Debug logging enabled")
		return
	}
	InitWithLevel("info")
}

// SetOutput sets the output writer for both the logger and user messages
func SetOutput(w io.Writer) {
	handler := NewColorTextHandler(w)
	logger = slog.New(handler)
	slog.SetDefault(logger)

	userMu.Lock()
	userOut = w
	userMu.Unlock()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

func userPrintf(prefix string, format string, args ...any) {
	userMu.Lock()
	defer userMu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		msg = prefix + " " + msg
	}
	fmt.Fprintln(userOut, msg)
}

// UserInfof prints a user-facing informational line
func UserInfof(format string, args ...any) {
	userPrintf("", format, args...)
}

// UserWarnf prints a user-facing warning line
func UserWarnf(format string, args ...any) {
	userPrintf(warnColor("WARN"), format, args...)
}

// UserErrorf prints a user-facing error line
func UserErrorf(format string, args ...any) {
	userPrintf(errorColor("ERROR"), format, args...)
}

// Successf prints a user-facing success line
func Successf(format string, args ...any) {
	userPrintf("", "%s", successColor(fmt.Sprintf(format, args...)))
}

// ContextualLogger tags every record with the job and component it belongs to
type ContextualLogger struct {
	l *slog.Logger
}

// NewContextualLogger creates a logger bound to an id (job, file) and a component name
func NewContextualLogger(id, component string) *ContextualLogger {
	l := slog.Default().With("component", component)
	if id != "" {
		l = l.With("id", id)
	}
	return &ContextualLogger{l: l}
}

// With returns a child logger carrying extra attributes
func (c *ContextualLogger) With(args ...any) *ContextualLogger {
	return &ContextualLogger{l: c.l.With(args...)}
}

// Debug logs a debug message
func (c *ContextualLogger) Debug(msg string, args ...any) { c.l.Debug(msg, args...) }

// Info logs an info message
func (c *ContextualLogger) Info(msg string, args ...any) { c.l.Info(msg, args...) }

// Warn logs a warning message
func (c *ContextualLogger) Warn(msg string, args ...any) { c.l.Warn(msg, args...) }

// Error logs an error message
func (c *ContextualLogger) Error(msg string, args ...any) { c.l.Error(msg, args...) }

// LogOperation runs fn and logs its duration and outcome under the given operation name
func LogOperation(operation, target string, fn func() error) error {
	start := time.Now()
	Debug("Operation started", "operation", operation, "target", target)

	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		Debug("Operation failed", "operation", operation, "target", target, "duration", elapsed, "error", err)
		return err
	}

	Debug("Operation completed", "operation", operation, "target", target, "duration", elapsed)
	return nil
}
