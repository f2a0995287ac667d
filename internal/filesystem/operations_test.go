package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniquePathAppendsIncrementingSuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "button.png")

	assert.Equal(t, path, UniquePath(path), "free path is returned as-is")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	first := UniquePath(path)
	assert.Equal(t, filepath.Join(dir, "button_1.png"), first)

	require.NoError(t, os.WriteFile(first, []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "button_2.png"), UniquePath(path))
}

func TestUniquePathWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	assert.Equal(t, filepath.Join(dir, "shot_1"), UniquePath(path))
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "events.json")

	require.NoError(t, WriteFileAtomic(path, []byte("[]"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomicFailsOnDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0644))

	assert.Error(t, WriteFileAtomic(target, []byte("[]"), 0644))
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"a.png":  true,
		"A.PNG":  true,
		"b.ppm":  true,
		"c.pgm":  true,
		"d.jpeg": true,
		"e.json": false,
		"f":      false,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsImageFile(path), path)
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "script.auto")
	require.NoError(t, os.WriteFile(file, []byte("print(1)"), 0644))

	assert.NoError(t, ValidateInputFile(file, "script", ""))
	assert.ErrorContains(t, ValidateInputFile("", "script", "AUTOMATON_SCRIPT"), "AUTOMATON_SCRIPT")
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(dir, "missing"), "script", ""), "does not exist")
	assert.ErrorContains(t, ValidateInputFile(dir, "script", ""), "is a directory")
}

func TestGetAbsolutePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := GetAbsolutePath("~/.automaton.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".automaton.yaml"), got)

	got, err = GetAbsolutePath("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = GetAbsolutePath("rel.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = GetAbsolutePath("")
	assert.Error(t, err)
}
