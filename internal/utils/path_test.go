package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDictPath(t *testing.T) {
	pr, err := NewPathResolver()
	require.NoError(t, err)

	dir := t.TempDir()
	file := filepath.Join(dir, "tags.txt")
	require.NoError(t, os.WriteFile(file, []byte("bug\n"), 0o644))

	assert.Equal(t, file, pr.GetDictPath(file))
	assert.Equal(t, "", pr.GetDictPath(""))
	// directories are not candidate lists
	assert.Equal(t, dir, pr.GetDictPath(dir))
	assert.Equal(t, "does-not-exist.txt", pr.GetDictPath("does-not-exist.txt"))
}

func TestGetConfigDir(t *testing.T) {
	assert.Contains(t, getConfigDir("/home/x"), AppName)

	pr, err := NewPathResolver()
	require.NoError(t, err)
	info := pr.GetRuntimeInfo()
	assert.Equal(t, pr.GetConfigDir(), info["config_dir"])
	assert.NotEmpty(t, info["executable_path"])
}
