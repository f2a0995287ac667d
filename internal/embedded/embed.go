// Package embedded ships the sample automation scripts inside the binary.
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
)

//go:embed scripts/*
var ScriptsFS embed.FS

const scriptsDir = "scripts"

// ExtractScripts writes every sample script into targetDir, never
// overwriting an existing file. It returns the paths written.
func ExtractScripts(targetDir string) ([]string, error) {
	if err := filesystem.EnsureDirectory(targetDir); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	names, err := ListEmbeddedScripts()
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(names))
	for _, name := range names {
		content, err := GetScriptContent(name)
		if err != nil {
			return written, err
		}
		target := filesystem.UniquePath(filepath.Join(targetDir, name))
		if err := filesystem.WriteFileAtomic(target, content, 0o644); err != nil {
			return written, fmt.Errorf("failed to write file %s: %w", target, err)
		}
		logging.UserInfof("Extracted: %s", target)
		written = append(written, target)
	}
	return written, nil
}

// ListEmbeddedScripts lists the sample script names, sorted
func ListEmbeddedScripts() ([]string, error) {
	var scripts []string
	err := fs.WalkDir(ScriptsFS, scriptsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			scripts = append(scripts, strings.TrimPrefix(p, scriptsDir+"/"))
		}
		return nil
	})
	sort.Strings(scripts)
	return scripts, err
}

// GetScriptContent returns the content of a sample script by name
func GetScriptContent(scriptName string) ([]byte, error) {
	data, err := ScriptsFS.ReadFile(path.Join(scriptsDir, scriptName))
	if err != nil {
		return nil, fmt.Errorf("no embedded script %q: %w", scriptName, err)
	}
	return data, nil
}

// Description returns the leading comment block of a sample script
func Description(scriptName string) string {
	data, err := GetScriptContent(scriptName)
	if err != nil {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			break
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	return strings.Join(lines, " ")
}
