package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
	"github.com/jeeftor/automaton/internal/recorder"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationResult holds the results of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// AddError adds a validation error
func (vr *ValidationResult) AddError(field string, value interface{}, rule string, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	})
}

// AddWarning adds a validation warning
func (vr *ValidationResult) AddWarning(message string) {
	vr.Warnings = append(vr.Warnings, message)
}

// Validate checks every setting and reports all problems at once
func (c Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateMatcher(result)
	c.validateTiming(result)
	c.validateRecorder(result)
	c.validatePaths(result)

	switch c.ScreenBackend {
	case BackendRobotgo, BackendScreenshot:
	default:
		result.AddError(KeyScreenBackend, c.ScreenBackend, "one_of",
			fmt.Sprintf("screen backend must be %q or %q", BackendRobotgo, BackendScreenshot))
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			result.AddError(KeyMetricsAddr, c.MetricsAddr, "host_port",
				fmt.Sprintf("metrics address must be host:port: %v", err))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		result.AddWarning(fmt.Sprintf("unknown log level %q, using info", c.LogLevel))
	}

	logging.Debug("Configuration validation", "valid", result.Valid,
		"errors", len(result.Errors), "warnings", len(result.Warnings))
	return result
}

func (c Config) validateMatcher(result *ValidationResult) {
	if c.MatchConfidence < -1 || c.MatchConfidence > 1 {
		result.AddError(KeyMatcherConfidence, c.MatchConfidence, "range",
			"confidence must be between -1 and 1")
	} else if c.MatchConfidence < 0.5 {
		result.AddWarning(fmt.Sprintf("low match confidence %.2f will report weak matches", c.MatchConfidence))
	}
	if c.MatchInterval <= 0 {
		result.AddError(KeyMatcherInterval, c.MatchInterval, "positive_duration",
			"poll interval must be positive")
	}
	if c.MatchTimeout < 0 {
		result.AddError(KeyMatcherTimeout, c.MatchTimeout, "non_negative_duration",
			"timeout must not be negative")
	}
	if c.MatchInterval > 0 && c.MatchTimeout > 0 && c.MatchInterval > c.MatchTimeout {
		result.AddWarning("matcher interval exceeds timeout; waits poll only once")
	}
	if c.MatchWorkers < 0 {
		result.AddError(KeyMatcherWorkers, c.MatchWorkers, "non_negative_integer",
			"workers must be zero (automatic) or positive")
	}
}

func (c Config) validateTiming(result *ValidationResult) {
	if c.StopGrace <= 0 {
		result.AddError(KeyRuntimeGrace, c.StopGrace, "positive_duration", "grace period must be positive")
	}
	if c.KillWait <= 0 {
		result.AddError(KeyRuntimeKillWait, c.KillWait, "positive_duration", "kill wait must be positive")
	}
	if c.ClickSteps < 1 {
		result.AddError(KeyClickSteps, c.ClickSteps, "positive_integer", "click glide needs at least one step")
	}
	if c.ClickDuration < 0 {
		result.AddError(KeyClickDuration, c.ClickDuration, "non_negative_duration", "click glide duration must not be negative")
	}
	if c.PlayerSpin < 0 || c.PlayerSpin > 100*time.Millisecond {
		result.AddError(KeyPlayerSpin, c.PlayerSpin, "range", "spin threshold must be between 0 and 100ms")
	}
	if c.PlayerSpeed <= 0 {
		result.AddError(KeyPlayerSpeed, c.PlayerSpeed, "positive_number", "replay speed must be positive")
	}
}

func (c Config) validateRecorder(result *ValidationResult) {
	if _, err := recorder.ParseHotkey(c.RecorderHotkey); err != nil {
		result.AddError(KeyRecorderHotkey, c.RecorderHotkey, "hotkey", err.Error())
	}
	if c.RecorderNoise < 0 {
		result.AddError(KeyRecorderNoise, c.RecorderNoise, "non_negative_integer", "noise threshold must not be negative")
	}
}

func (c Config) validatePaths(result *ValidationResult) {
	if c.EventsFile == "" {
		result.AddError(KeyEventsFile, c.EventsFile, "required", "events file must be set")
	}
	if c.SessionFile == "" {
		result.AddError(KeySessionFile, c.SessionFile, "required", "session file must be set")
	}
	if c.CaptureDir == "" {
		result.AddError(KeyCaptureDir, c.CaptureDir, "required", "capture folder must be set")
		return
	}
	if info, err := os.Stat(c.CaptureDir); err == nil {
		if !info.IsDir() {
			result.AddError(KeyCaptureDir, c.CaptureDir, "directory", "capture path exists and is not a folder")
		} else if err := checkDirectoryWritable(c.CaptureDir); err != nil {
			result.AddError(KeyCaptureDir, c.CaptureDir, "directory_writable",
				fmt.Sprintf("cannot write to capture folder: %v", err))
		}
	}
}

// checkDirectoryWritable checks if a directory is writable
func checkDirectoryWritable(dir string) error {
	tempFile, err := os.CreateTemp(dir, "automaton-validation-*")
	if err != nil {
		return err
	}
	tempFile.Close()
	return filesystem.SafeRemove(tempFile.Name())
}

// FormatValidationErrors formats validation errors for user display
func FormatValidationErrors(result *ValidationResult) string {
	if result.Valid && len(result.Warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	if !result.Valid {
		sb.WriteString("Configuration validation failed:\n")
		for _, err := range result.Errors {
			sb.WriteString(fmt.Sprintf("  • %s\n", err.Error()))
		}
	}

	if len(result.Warnings) > 0 {
		if !result.Valid {
			sb.WriteString("\n")
		}
		sb.WriteString("Warnings:\n")
		for _, warning := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
	}

	return sb.String()
}
