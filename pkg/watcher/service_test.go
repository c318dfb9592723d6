package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CheckChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("missions: []\n"), 0o644))

	s := NewService(path)
	assert.Empty(t, s.CheckChanged(), "baseline is not a change")

	// Bump the mod time explicitly; some filesystems have coarse timestamps.
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("missions: []\n# edited\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Equal(t, []string{path}, s.CheckChanged())
	assert.Empty(t, s.CheckChanged(), "change is reported once")
}

func TestService_CreateAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.yaml")

	s := NewService(path)
	assert.Empty(t, s.CheckChanged())

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.Equal(t, []string{path}, s.CheckChanged())

	require.NoError(t, os.Remove(path))
	assert.Equal(t, []string{path}, s.CheckChanged())
	assert.Empty(t, s.CheckChanged())
}
