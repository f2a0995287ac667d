package params

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/session"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetDefault(KeyEvents, "mouse_events.json")
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}
	return v
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "AUTOMATON_EVENTS_FILE", EnvName("events.file"))
	assert.Equal(t, "AUTOMATON_SCRIPT", EnvName("script"))
}

func TestResolveEventsFileWithInfo(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		position       int
		envValue       string
		configYAML     string
		expectedValue  string
		expectedSource string
	}{
		{
			name:           "from argument",
			args:           []string{"arg.json"},
			position:       0,
			envValue:       "env.json",
			configYAML:     "events:\n  file: config.json\n",
			expectedValue:  "arg.json",
			expectedSource: "argument",
		},
		{
			name:           "environment beats config",
			position:       0,
			envValue:       "env.json",
			configYAML:     "events:\n  file: config.json\n",
			expectedValue:  "env.json",
			expectedSource: "environment",
		},
		{
			name:           "config when no env",
			position:       0,
			configYAML:     "events:\n  file: config.json\n",
			expectedValue:  "config.json",
			expectedSource: "config",
		},
		{
			name:           "default last",
			args:           []string{"other"},
			position:       3,
			expectedValue:  "mouse_events.json",
			expectedSource: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("AUTOMATON_EVENTS_FILE", tt.envValue)
			} else {
				t.Setenv("AUTOMATON_EVENTS_FILE", "")
			}
			r := NewParameterResolver(newViper(t, tt.configYAML))
			info := r.ResolveEventsFileWithInfo(tt.args, tt.position)
			assert.Equal(t, tt.expectedValue, info.Value)
			assert.Equal(t, tt.expectedSource, info.Source)
		})
	}
}

func TestResolveTemplateWithInfo(t *testing.T) {
	t.Setenv("AUTOMATON_TEMPLATE", "")
	r := NewParameterResolver(newViper(t, ""))

	info, err := r.ResolveTemplateWithInfo([]string{"ok.png"}, 0)
	require.NoError(t, err)
	assert.Equal(t, ParameterInfo{Value: "ok.png", Source: "argument"}, info)

	_, err = r.ResolveTemplateWithInfo(nil, 0)
	assert.ErrorContains(t, err, "AUTOMATON_TEMPLATE")

	_, err = r.ResolveTemplateWithInfo([]string{"notes.txt"}, 0)
	assert.ErrorContains(t, err, "not a supported image")

	t.Setenv("AUTOMATON_TEMPLATE", "from_env.PPM")
	info, err = r.ResolveTemplateWithInfo(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "environment", info.Source)
}

func TestResolveScript(t *testing.T) {
	t.Setenv("AUTOMATON_SCRIPT", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.auto")
	require.NoError(t, os.WriteFile(path, []byte("print(1)"), 0o644))
	store := session.NewStore(filepath.Join(dir, "latest_script.auto"))
	r := NewParameterResolver(newViper(t, ""))

	src, err := r.ResolveScript([]string{path}, 0, store)
	require.NoError(t, err)
	assert.Equal(t, ScriptSource{Name: "demo.auto", Body: "print(1)", Source: "argument"}, src)

	_, err = r.ResolveScript(nil, 0, store)
	assert.ErrorContains(t, err, "no saved session")

	require.NoError(t, store.Save("print(2)"))
	src, err = r.ResolveScript(nil, 0, store)
	require.NoError(t, err)
	assert.Equal(t, "session", src.Source)
	assert.Equal(t, "print(2)", src.Body)

	_, err = r.ResolveScript([]string{filepath.Join(dir, "missing.auto")}, 0, store)
	assert.ErrorContains(t, err, "does not exist")

	_, err = r.ResolveScript(nil, 0, nil)
	assert.ErrorContains(t, err, "AUTOMATON_SCRIPT")
}
