package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for gstcli
// Typically ~/.config/gstcli/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "gstcli")
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for gstcli
// Typically ~/.local/share/gstcli/ on Linux
func DataDir() string {
	return filepath.Join(xdg.DataHome, "gstcli")
}

// CredentialsPath returns the default path of the credentials file
func CredentialsPath() string {
	return filepath.Join(DataDir(), "accounts.env")
}
