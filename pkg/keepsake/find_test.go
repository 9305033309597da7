package keepsake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPhotos(t *testing.T) {
	dir := t.TempDir()
	writePhotos(t, dir, "c.PNG", "a.png", "sub/b.png", ".hidden.png", ".cache/d.png", "e.png", "f.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	got, err := FindPhotos(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "c.PNG"),
		filepath.Join(dir, "e.png"),
		filepath.Join(dir, "f.png"),
	}, got)

	_, err = FindPhotos(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestEarliestTakenNoPaths(t *testing.T) {
	got, err := EarliestTaken(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
