package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBrowserConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))

	found, err := FindBrowser(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindBrowserConfiguredPathMissing(t *testing.T) {
	_, err := FindBrowser(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "browser binary not found")
}

func TestFindBrowserProbesPath(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "chromium")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", dir)

	found, err := FindBrowser("")
	require.NoError(t, err)
	assert.Equal(t, binary, found)
}

func TestFindBrowserNothingOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := FindBrowser("")
	assert.Error(t, err)
}
