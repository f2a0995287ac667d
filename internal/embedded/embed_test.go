package embedded

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/script"
)

func TestSamplesAreValidScripts(t *testing.T) {
	names, err := ListEmbeddedScripts()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := GetScriptContent(name)
			require.NoError(t, err)
			result := script.Check(string(src))
			assert.True(t, result.Valid, "%+v", result.Errors)
			assert.Empty(t, result.Warnings)
			assert.NotEmpty(t, Description(name))
		})
	}
}

func TestExtractScriptsKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "click_button.auto")
	require.NoError(t, os.WriteFile(existing, []byte("mine"), 0o644))

	written, err := ExtractScripts(dir)
	require.NoError(t, err)

	names, _ := ListEmbeddedScripts()
	assert.Len(t, written, len(names))
	assert.Contains(t, written, filepath.Join(dir, "click_button_1.auto"))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestUnknownScript(t *testing.T) {
	_, err := GetScriptContent("missing.auto")
	assert.Error(t, err)
	assert.Equal(t, "", Description("missing.auto"))
}
