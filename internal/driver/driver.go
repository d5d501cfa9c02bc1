// Package driver wraps the browser automation layer behind a small session
// capability. The login flow only ever talks to the Session interface, so
// tests drive it with a scripted fake instead of a real browser.
package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Session is one live browser tab under automation. Close is idempotent and
// must be called on every exit path once a session has been opened.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	SendKeys(ctx context.Context, sel, text string) error
	Click(ctx context.Context, sel string) error
	Text(ctx context.Context, sel string) (string, error)
	Location(ctx context.Context) (string, error)
	Close() error
}

// browserCandidates are the binary names probed on PATH when no explicit
// browser path is configured.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// FindBrowser resolves the browser binary. An explicit configured path must
// exist; otherwise the PATH is probed for a known Chrome flavor. This is the
// precondition check for the whole login feature, run before any session is
// opened.
func FindBrowser(configuredPath string) (string, error) {
	if configuredPath != "" {
		if _, err := os.Stat(configuredPath); err != nil {
			return "", fmt.Errorf("browser binary not found at %s: %w", configuredPath, err)
		}
		return configuredPath, nil
	}

	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no Chrome or Chromium binary found on PATH")
}
