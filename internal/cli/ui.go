package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// UI is the interaction capability the flows run against. The interactive
// commands use a console-backed implementation; tests use a scripted one.
// Confirmation is a capability of the front end, not of the store.
type UI interface {
	// Prompt displays a label and returns one trimmed line of input.
	Prompt(label string) string
	// Confirm asks a yes/no question before a destructive operation.
	Confirm(question string) bool
	// Say writes a message to the operator.
	Say(format string, args ...any)
}

// ConsoleUI is the line-based terminal implementation of UI. It also
// implements login.Prompter so a single value carries all human-input
// capabilities through a login attempt.
type ConsoleUI struct {
	in      *bufio.Reader
	out     io.Writer
	noInput bool
	force   bool
}

// NewConsoleUI builds a UI over stdin/stderr honoring the global flags.
func NewConsoleUI(globals *Globals) *ConsoleUI {
	return &ConsoleUI{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stderr,
		noInput: globals.NoInput,
		force:   globals.Force,
	}
}

// Prompt displays a label and reads one line. With --no-input it returns an
// empty string, which the flows treat as an abort.
func (u *ConsoleUI) Prompt(label string) string {
	if u.noInput {
		return ""
	}
	fmt.Fprint(u.out, label)
	line, _ := u.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Confirm asks a yes/no question. --force answers yes without prompting;
// --no-input answers no.
func (u *ConsoleUI) Confirm(question string) bool {
	if u.force {
		return true
	}
	if u.noInput {
		return false
	}
	answer := strings.ToLower(u.Prompt(question + " (yes/no): "))
	return answer == "yes" || answer == "y"
}

// Say writes a formatted message to the operator.
func (u *ConsoleUI) Say(format string, args ...any) {
	fmt.Fprintf(u.out, format+"\n", args...)
}

// ReadCaptcha implements login.Prompter. The operator reads the challenge
// from the live browser window and types the solution here.
func (u *ConsoleUI) ReadCaptcha(tradeName string) (string, error) {
	if u.noInput {
		return "", fmt.Errorf("CAPTCHA entry requires interactive input")
	}
	return u.Prompt(fmt.Sprintf("Enter CAPTCHA from browser for '%s': ", tradeName)), nil
}

// KeepOpen implements login.Prompter. Blocks until the operator is done
// with the logged-in session; teardown runs when this returns.
func (u *ConsoleUI) KeepOpen(tradeName string) {
	if u.noInput {
		return
	}
	u.Prompt("Press Enter to close the browser...")
}
