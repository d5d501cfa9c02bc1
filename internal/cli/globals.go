package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Output          string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"GSTCLI_OUTPUT"`
	Verbose         bool   `help:"Verbose output" short:"v" env:"GSTCLI_VERBOSE"`
	NoInput         bool   `help:"Disable interactive prompts (fail instead)" env:"GSTCLI_NO_INPUT"`
	Force           bool   `help:"Skip confirmation prompts for destructive operations" env:"GSTCLI_FORCE"`
	CredentialsFile string `help:"Override the credentials file path" env:"GSTCLI_CREDENTIALS_FILE"`
}

// ResolvedOutput returns the effective output mode
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput() string {
	if g.Output != "auto" {
		return g.Output
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
