package cmd

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jeeftor/automaton/internal/config"
)

func TestReadBuildStampFallsBackToVCS(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2024-05-06T07:08:09Z"},
		},
	}

	s := readBuildStamp(info)
	assert.Equal(t, "dev", s.Version)
	assert.Equal(t, "0123456789ab", s.Commit)
	assert.Equal(t, "2024-05-06 07:08:09 UTC", s.Built)
}

func TestReadBuildStampPrefersLdflags(t *testing.T) {
	oldVersion, oldCommit := buildVersion, buildCommit
	t.Cleanup(func() { buildVersion, buildCommit = oldVersion, oldCommit })
	buildVersion, buildCommit = "1.4.0", "abc123"

	info := &debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffff"}},
	}
	s := readBuildStamp(info)
	assert.Equal(t, "1.4.0", s.Version)
	assert.Equal(t, "abc123", s.Commit)
	assert.Equal(t, "unknown", readBuildStamp(nil).Built)
}

func TestPrintVersionReportsEngineSettings(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	cfg := config.Default()
	cfg.ScreenBackend = "screenshot"
	cfg.RecorderHotkey = "ctrl+f2"

	var buf bytes.Buffer
	printVersion(&buf, buildStamp{Version: "1.0.0", Commit: "abc", Built: "today"}, cfg)

	out := buf.String()
	assert.Contains(t, out, "automaton 1.0.0")
	assert.Regexp(t, `screen\s+screenshot`, out)
	assert.Regexp(t, `hotkey\s+ctrl\+f2`, out)
	assert.Regexp(t, `metrics\s+off`, out)

	cfg.MetricsAddr = "127.0.0.1:9090"
	buf.Reset()
	printVersion(&buf, buildStamp{Version: "1.0.0"}, cfg)
	assert.Regexp(t, `metrics\s+127\.0\.0\.1:9090`, buf.String())
}
