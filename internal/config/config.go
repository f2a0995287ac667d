// Package config resolves the effective settings from viper (flags, the
// AUTOMATON_* environment and .automaton.yaml) and validates them.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/script"
)

// Config keys
const (
	KeyLogLevel          = "log_level"
	KeyCaptureDir        = "capture.dir"
	KeyEventsFile        = "events.file"
	KeySessionFile       = "session.file"
	KeyRecorderHotkey    = "recorder.hotkey"
	KeyRecorderNoise     = "recorder.noise_px"
	KeyMatcherConfidence = "matcher.confidence"
	KeyMatcherTimeout    = "matcher.timeout"
	KeyMatcherInterval   = "matcher.interval"
	KeyMatcherWorkers    = "matcher.workers"
	KeyClickDuration     = "click.duration"
	KeyClickSteps        = "click.steps"
	KeyRuntimeGrace      = "runtime.grace"
	KeyRuntimeKillWait   = "runtime.kill_wait"
	KeyPlayerSpin        = "player.spin"
	KeyPlayerSpeed       = "player.speed"
	KeyScreenBackend     = "screen.backend"
	KeyMetricsAddr       = "metrics.addr"
)

// Screen capture backends
const (
	BackendRobotgo    = "robotgo"
	BackendScreenshot = "screenshot"
)

// Config is the typed view of all settings
type Config struct {
	LogLevel    string
	CaptureDir  string
	EventsFile  string
	SessionFile string

	RecorderHotkey string
	RecorderNoise  int

	MatchConfidence float64
	MatchTimeout    time.Duration
	MatchInterval   time.Duration
	MatchWorkers    int

	ClickDuration time.Duration
	ClickSteps    int

	StopGrace time.Duration
	KillWait  time.Duration

	PlayerSpin  time.Duration
	PlayerSpeed float64

	ScreenBackend string

	// MetricsAddr is where run serves /metrics; empty disables it
	MetricsAddr string
}

// SetDefaults registers the stock value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCaptureDir, constants.DefaultCaptureDir)
	v.SetDefault(KeyEventsFile, constants.DefaultEventsFile)
	v.SetDefault(KeySessionFile, constants.DefaultSessionFile)
	v.SetDefault(KeyRecorderHotkey, constants.DefaultRecordHotkey)
	v.SetDefault(KeyRecorderNoise, constants.MoveNoisePixels)
	v.SetDefault(KeyMatcherConfidence, constants.DefaultConfidence)
	v.SetDefault(KeyMatcherTimeout, constants.DefaultMatchTimeout)
	v.SetDefault(KeyMatcherInterval, constants.DefaultMatchInterval)
	v.SetDefault(KeyMatcherWorkers, 0)
	v.SetDefault(KeyClickDuration, constants.DefaultMoveDuration)
	v.SetDefault(KeyClickSteps, constants.DefaultMoveSteps)
	v.SetDefault(KeyRuntimeGrace, constants.DefaultStopGrace)
	v.SetDefault(KeyRuntimeKillWait, constants.DefaultKillWait)
	v.SetDefault(KeyPlayerSpin, constants.DefaultSpinThreshold)
	v.SetDefault(KeyPlayerSpeed, 1.0)
	v.SetDefault(KeyScreenBackend, BackendRobotgo)
	v.SetDefault(KeyMetricsAddr, "")
}

// Load reads the typed configuration out of v
func Load(v *viper.Viper) Config {
	return Config{
		LogLevel:        v.GetString(KeyLogLevel),
		CaptureDir:      v.GetString(KeyCaptureDir),
		EventsFile:      v.GetString(KeyEventsFile),
		SessionFile:     v.GetString(KeySessionFile),
		RecorderHotkey:  v.GetString(KeyRecorderHotkey),
		RecorderNoise:   v.GetInt(KeyRecorderNoise),
		MatchConfidence: v.GetFloat64(KeyMatcherConfidence),
		MatchTimeout:    v.GetDuration(KeyMatcherTimeout),
		MatchInterval:   v.GetDuration(KeyMatcherInterval),
		MatchWorkers:    v.GetInt(KeyMatcherWorkers),
		ClickDuration:   v.GetDuration(KeyClickDuration),
		ClickSteps:      v.GetInt(KeyClickSteps),
		StopGrace:       v.GetDuration(KeyRuntimeGrace),
		KillWait:        v.GetDuration(KeyRuntimeKillWait),
		PlayerSpin:      v.GetDuration(KeyPlayerSpin),
		PlayerSpeed:     v.GetFloat64(KeyPlayerSpeed),
		ScreenBackend:   v.GetString(KeyScreenBackend),
		MetricsAddr:     v.GetString(KeyMetricsAddr),
	}
}

// Default returns the configuration with every key at its stock value
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	return Load(v)
}

// ScriptDefaults maps the settings that fill in optional builtin arguments
func (c Config) ScriptDefaults() script.Defaults {
	return script.Defaults{
		Confidence:   c.MatchConfidence,
		Timeout:      c.MatchTimeout,
		Interval:     c.MatchInterval,
		EventsFile:   c.EventsFile,
		MoveDuration: c.ClickDuration,
		MoveSteps:    c.ClickSteps,
	}
}

// Entry is one key and its effective value
type Entry struct {
	Key   string
	Value string
}

// Entries lists every setting in key order for display
func (c Config) Entries() []Entry {
	return []Entry{
		{KeyCaptureDir, c.CaptureDir},
		{KeyClickDuration, c.ClickDuration.String()},
		{KeyClickSteps, fmt.Sprint(c.ClickSteps)},
		{KeyEventsFile, c.EventsFile},
		{KeyLogLevel, c.LogLevel},
		{KeyMatcherConfidence, fmt.Sprint(c.MatchConfidence)},
		{KeyMatcherInterval, c.MatchInterval.String()},
		{KeyMatcherTimeout, c.MatchTimeout.String()},
		{KeyMatcherWorkers, fmt.Sprint(c.MatchWorkers)},
		{KeyMetricsAddr, c.MetricsAddr},
		{KeyPlayerSpeed, fmt.Sprint(c.PlayerSpeed)},
		{KeyPlayerSpin, c.PlayerSpin.String()},
		{KeyRecorderHotkey, c.RecorderHotkey},
		{KeyRecorderNoise, fmt.Sprint(c.RecorderNoise)},
		{KeyRuntimeGrace, c.StopGrace.String()},
		{KeyRuntimeKillWait, c.KillWait.String()},
		{KeyScreenBackend, c.ScreenBackend},
		{KeySessionFile, c.SessionFile},
	}
}

// EnvKeyReplacer maps nested keys onto AUTOMATON_* variable names, so
// matcher.confidence reads AUTOMATON_MATCHER_CONFIDENCE
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
