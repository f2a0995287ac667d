package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	cfg.CaptureDir = t.TempDir()

	result := cfg.Validate()
	assert.True(t, result.Valid, FormatValidationErrors(result))
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "", FormatValidationErrors(result))

	assert.Equal(t, 0.8, cfg.MatchConfidence)
	assert.Equal(t, 30*time.Second, cfg.MatchTimeout)
	assert.Equal(t, "ctrl+f1", cfg.RecorderHotkey)
	assert.Equal(t, BackendRobotgo, cfg.ScreenBackend)
}

func TestLoadFromConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".automaton.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matcher:
  confidence: 0.95
  timeout: 5s
runtime:
  grace: 250ms
screen:
  backend: screenshot
`), 0o644))

	t.Setenv("AUTOMATON_EVENTS_FILE", "from_env.json")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("AUTOMATON")
	v.SetEnvKeyReplacer(EnvKeyReplacer())
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg := Load(v)
	assert.Equal(t, 0.95, cfg.MatchConfidence)
	assert.Equal(t, 5*time.Second, cfg.MatchTimeout)
	assert.Equal(t, time.Second, cfg.MatchInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.StopGrace)
	assert.Equal(t, BackendScreenshot, cfg.ScreenBackend)
	assert.Equal(t, "from_env.json", cfg.EventsFile)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.CaptureDir = t.TempDir()
	cfg.MatchConfidence = 1.5
	cfg.MatchInterval = 0
	cfg.StopGrace = 0
	cfg.ClickSteps = 0
	cfg.PlayerSpeed = -1
	cfg.RecorderHotkey = "f1"
	cfg.ScreenBackend = "x11"
	cfg.LogLevel = "loud"
	cfg.MetricsAddr = "9090"

	result := cfg.Validate()
	require.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		KeyMatcherConfidence, KeyMatcherInterval, KeyRuntimeGrace, KeyClickSteps,
		KeyPlayerSpeed, KeyRecorderHotkey, KeyScreenBackend, KeyMetricsAddr,
	}, fields)
	assert.Len(t, result.Warnings, 1)

	msg := FormatValidationErrors(result)
	assert.Contains(t, msg, "Configuration validation failed:")
	assert.Contains(t, msg, "screen.backend")
	assert.Contains(t, msg, `unknown log level "loud"`)
}

func TestValidateCaptureDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := Default()
	cfg.CaptureDir = file
	result := cfg.Validate()
	require.False(t, result.Valid)
	assert.Equal(t, "directory", result.Errors[0].Rule)

	// a missing folder is created on first use
	cfg.CaptureDir = filepath.Join(dir, "later")
	assert.True(t, cfg.Validate().Valid)
}

func TestScriptDefaultsFollowConfig(t *testing.T) {
	cfg := Default()
	cfg.MatchConfidence = 0.9
	cfg.EventsFile = "mine.json"
	cfg.ClickSteps = 10

	d := cfg.ScriptDefaults()
	assert.Equal(t, 0.9, d.Confidence)
	assert.Equal(t, "mine.json", d.EventsFile)
	assert.Equal(t, 10, d.MoveSteps)
	assert.Equal(t, cfg.MatchTimeout, d.Timeout)
}

func TestEntriesCoverEveryKey(t *testing.T) {
	entries := Default().Entries()
	assert.Len(t, entries, 18)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Key, entries[i].Key)
	}
}
