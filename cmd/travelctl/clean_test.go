package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanImages(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.png")
	fresh := filepath.Join(dir, "fresh.png")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	stale := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(old, stale, stale))
	require.NoError(t, os.Chtimes(other, stale, stale))

	removed, err := cleanImages(dir, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestCleanImages_MissingDir(t *testing.T) {
	removed, err := cleanImages(filepath.Join(t.TempDir(), "absent"), 7)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanImages_InvalidDays(t *testing.T) {
	_, err := cleanImages(t.TempDir(), 0)
	require.Error(t, err)
}

func TestCleanLogs(t *testing.T) {
	dir := t.TempDir()

	long := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(long, []byte("l1\nl2\nl3\nl4\nl5\n"), 0o644))
	short := filepath.Join(dir, "short.log")
	require.NoError(t, os.WriteFile(short, []byte("only\n"), 0o644))

	truncated, err := cleanLogs(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, truncated)

	kept, err := os.ReadFile(long)
	require.NoError(t, err)
	assert.Equal(t, "l4\nl5\n", string(kept))

	untouched, err := os.ReadFile(short)
	require.NoError(t, err)
	assert.Equal(t, "only\n", string(untouched))
}

func TestCleanLogs_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	data := strings.Repeat("line\n", 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(data), 0o644))

	truncated, err := cleanLogs(dir, 2)
	require.NoError(t, err)
	assert.Zero(t, truncated)
}
