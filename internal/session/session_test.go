package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "latest_script.auto"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save("print('one')"))
	require.NoError(t, store.Save("print('two')\n"))

	src, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "print('two')\n", src)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadDirectoryFails(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
