package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/session"
)

// EnvPrefix prefixes every environment variable the CLI reads
const EnvPrefix = "AUTOMATON"

// Setting keys resolved here that have no typed config field
const (
	KeyScript   = "script"
	KeyTemplate = "template"
	KeyEvents   = "events.file"
)

// ParameterInfo provides information about where a parameter came from
type ParameterInfo struct {
	Value  string
	Source string // "argument", "environment", "config", "default", "session"
}

// ScriptSource is a resolved script body
type ScriptSource struct {
	Name   string
	Body   string
	Source string
}

// ParameterResolver resolves parameters from positional arguments, the
// environment, the config file and stored defaults, in that order
type ParameterResolver struct {
	v *viper.Viper
}

// NewParameterResolver creates a resolver reading settings from v
func NewParameterResolver(v *viper.Viper) *ParameterResolver {
	return &ParameterResolver{v: v}
}

// EnvName returns the environment variable that sets key
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func argAt(args []string, argIndex int) (string, bool) {
	if argIndex >= 0 && argIndex < len(args) && args[argIndex] != "" {
		return args[argIndex], true
	}
	return "", false
}

// fromSettings looks key up in the environment, then the config file, then
// viper defaults
func (r *ParameterResolver) fromSettings(key string) (ParameterInfo, bool) {
	if val, ok := os.LookupEnv(EnvName(key)); ok && val != "" {
		return ParameterInfo{Value: val, Source: "environment"}, true
	}
	if r.v.InConfig(key) {
		if val := r.v.GetString(key); val != "" {
			return ParameterInfo{Value: val, Source: "config"}, true
		}
	}
	if val := r.v.GetString(key); val != "" {
		return ParameterInfo{Value: val, Source: "default"}, true
	}
	return ParameterInfo{}, false
}

// ResolveEventsFileWithInfo resolves the event log path
// Priority: explicit argument > AUTOMATON_EVENTS_FILE > config > default
func (r *ParameterResolver) ResolveEventsFileWithInfo(args []string, argIndex int) ParameterInfo {
	if arg, ok := argAt(args, argIndex); ok {
		return ParameterInfo{Value: arg, Source: "argument"}
	}
	if info, ok := r.fromSettings(KeyEvents); ok {
		return info
	}
	return ParameterInfo{Source: "none"}
}

// ResolveTemplateWithInfo resolves the template image to search for
// Priority: explicit argument > AUTOMATON_TEMPLATE > config > error
func (r *ParameterResolver) ResolveTemplateWithInfo(args []string, argIndex int) (ParameterInfo, error) {
	info, ok := argAt(args, argIndex)
	var resolved ParameterInfo
	switch {
	case ok:
		resolved = ParameterInfo{Value: info, Source: "argument"}
	default:
		s, found := r.fromSettings(KeyTemplate)
		if !found {
			return ParameterInfo{}, fmt.Errorf("template image is required: provide as argument or set %s", EnvName(KeyTemplate))
		}
		resolved = s
	}
	if !filesystem.IsImageFile(resolved.Value) {
		return ParameterInfo{}, fmt.Errorf("template %q is not a supported image file", resolved.Value)
	}
	return resolved, nil
}

// ResolveScript finds the script to run and reads it
// Priority: explicit argument > AUTOMATON_SCRIPT > config > last saved session
func (r *ParameterResolver) ResolveScript(args []string, argIndex int, store *session.Store) (ScriptSource, error) {
	var info ParameterInfo
	if arg, ok := argAt(args, argIndex); ok {
		info = ParameterInfo{Value: arg, Source: "argument"}
	} else if s, ok := r.fromSettings(KeyScript); ok {
		info = s
	}

	if info.Value != "" {
		if err := filesystem.ValidateInputFile(info.Value, "script file", EnvName(KeyScript)); err != nil {
			return ScriptSource{}, err
		}
		body, err := os.ReadFile(info.Value)
		if err != nil {
			return ScriptSource{}, fmt.Errorf("cannot read script: %w", err)
		}
		return ScriptSource{Name: filepath.Base(info.Value), Body: string(body), Source: info.Source}, nil
	}

	if store == nil {
		return ScriptSource{}, fmt.Errorf("script file is required: provide as argument or set %s", EnvName(KeyScript))
	}
	body, err := store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return ScriptSource{}, fmt.Errorf("no script given and no saved session at %s", store.Path())
	}
	if err != nil {
		return ScriptSource{}, err
	}
	return ScriptSource{Name: filepath.Base(store.Path()), Body: body, Source: "session"}, nil
}
