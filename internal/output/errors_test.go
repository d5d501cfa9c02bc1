package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCLIError(t *testing.T) {
	err := NewCLIError(ExitConfigError, "browser binary not found")
	assert.Equal(t, ExitConfigError, err.ExitCode)
	assert.Equal(t, "browser binary not found", err.Message)
	assert.Empty(t, err.Hint)
}

func TestCLIErrorError(t *testing.T) {
	err := &CLIError{Message: "something broke"}
	assert.Equal(t, "something broke", err.Error())
}

func TestCLIErrorWithHint(t *testing.T) {
	err := NewCLIError(ExitNotFound, "trade name not found")
	result := err.WithHint("Run: gstcli accounts list")

	// Fluent builder returns same pointer
	assert.Same(t, err, result)
	assert.Equal(t, "Run: gstcli accounts list", err.Hint)
}

func TestCLIErrorImplementsError(t *testing.T) {
	var err error = NewCLIError(ExitGeneral, "test")
	assert.Equal(t, "test", err.Error())
}
