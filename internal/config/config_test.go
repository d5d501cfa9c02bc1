package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointConfigHome redirects XDG_CONFIG_HOME at a temp dir for the test.
func pointConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	pointConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.LoginURL)
	assert.Empty(t, cfg.BrowserPath)
	assert.Equal(t, DefaultLoginURL, cfg.ResolvedLoginURL())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	pointConfigHome(t)

	cfg := &Config{
		LoginURL:        "https://example.test/login",
		BrowserPath:     "/opt/chrome/chrome",
		CredentialsFile: "/tmp/accounts.env",
		DefaultOutput:   "plain",
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveWritesSecurePermissions(t *testing.T) {
	pointConfigHome(t)

	cfg := &Config{LoginURL: "https://example.test/login"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadParsesJSON5(t *testing.T) {
	dir := pointConfigHome(t)

	// JSON5 allows comments and trailing commas
	content := `{
		// operator-edited config
		login_url: "https://example.test/login",
		default_output: "json",
	}`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gstcli"), 0700))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/login", cfg.LoginURL)
	assert.Equal(t, "json", cfg.DefaultOutput)
}

func TestGetSetUnset(t *testing.T) {
	pointConfigHome(t)

	cfg := &Config{}

	require.NoError(t, cfg.Set("browser_path", "/usr/bin/chromium"))
	value, err := cfg.Get("browser_path")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/chromium", value)

	require.NoError(t, cfg.Unset("browser_path"))
	value, err = cfg.Get("browser_path")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestGetUnknownKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Get("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestResolvedCredentialsFile(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, CredentialsPath(), cfg.ResolvedCredentialsFile())

	cfg.CredentialsFile = "/srv/gst/accounts.env"
	assert.Equal(t, "/srv/gst/accounts.env", cfg.ResolvedCredentialsFile())
}
