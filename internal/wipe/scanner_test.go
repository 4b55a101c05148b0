package wipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetsByName(targets []WipeTarget) map[string]WipeTarget {
	out := make(map[string]WipeTarget, len(targets))
	for _, t := range targets {
		out[filepath.Base(t.Path)] = t
	}
	return out
}

func TestScanDirectoryRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("hello"))
	writeFile(t, filepath.Join(root, "b.jpg"), filled(0xFF, 128))
	writeFile(t, filepath.Join(root, "sub", "c.bin"), filled(0x01, 7))

	targets, err := NewScanner(nil).Scan(root)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	byName := targetsByName(targets)
	assert.Equal(t, CategoryText, byName["a.txt"].Category)
	assert.Equal(t, int64(5), byName["a.txt"].Size)
	assert.Equal(t, CategoryImage, byName["b.jpg"].Category)
	assert.Equal(t, int64(128), byName["b.jpg"].Size)
	assert.Equal(t, CategoryOther, byName["c.bin"].Category)
	assert.Equal(t, filepath.Join(root, "sub", "c.bin"), byName["c.bin"].Path)
}

func TestScanSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.zip")
	writeFile(t, path, filled(0x42, 10))

	targets, err := NewScanner(nil).Scan(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, WipeTarget{Path: path, Size: 10, Category: CategoryArchive}, targets[0])
}

func TestScanEmptyDirectory(t *testing.T) {
	targets, err := NewScanner(nil).Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewScanner(nil).Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "victim.txt"), []byte("must survive"))
	writeFile(t, filepath.Join(root, "real.txt"), []byte("x"))

	if err := os.Symlink(filepath.Join(outside, "victim.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linkdir")))

	targets, err := NewScanner(nil).Scan(root)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "real.txt", filepath.Base(targets[0].Path))
}

func TestScanSymlinkRootYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "secret.txt")
	writeFile(t, target, []byte("secret"))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	targets, err := NewScanner(nil).Scan(link)
	require.NoError(t, err)
	assert.Empty(t, targets)
}
