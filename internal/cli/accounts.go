package cli

import (
	"fmt"

	"github.com/gst-tools/gstcli/internal/config"
	"github.com/gst-tools/gstcli/internal/output"
	"github.com/gst-tools/gstcli/internal/store"
)

// openStore opens the credentials file resolved from config and flags.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.ResolvedCredentialsFile())
	if err != nil {
		return nil, &output.CLIError{
			Message:  fmt.Sprintf("Failed to open credentials file: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	return st, nil
}

// AccountsAddCmd implements the accounts add command
type AccountsAddCmd struct{}

// Run executes the add command
func (cmd *AccountsAddCmd) Run(cfg *config.Config, fp *FormatterProvider, globals *Globals) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	return runAddAccount(st, NewConsoleUI(globals))
}

// AccountsUpdateCmd implements the accounts update command
type AccountsUpdateCmd struct{}

// Run executes the update command
func (cmd *AccountsUpdateCmd) Run(cfg *config.Config, fp *FormatterProvider, globals *Globals) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	return runUpdateAccount(st, NewConsoleUI(globals))
}

// AccountsListCmd implements the accounts list command
type AccountsListCmd struct{}

// Run executes the list command
func (cmd *AccountsListCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	return runListAccounts(st, fp.Formatter)
}
