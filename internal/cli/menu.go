package cli

import (
	"context"

	"github.com/gst-tools/gstcli/internal/config"
	"github.com/gst-tools/gstcli/internal/output"
	"github.com/gst-tools/gstcli/internal/store"
)

// MenuCmd implements the interactive nested menu, the tool's default mode.
// Every error path returns to the enclosing menu; only explicit Exit (or
// end of input) terminates.
type MenuCmd struct{}

// Run executes the menu loop
func (cmd *MenuCmd) Run(cfg *config.Config, fp *FormatterProvider, globals *Globals) error {
	ui := NewConsoleUI(globals)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	ui.Say("--- GST Portal Login Tool ---")

	for {
		ui.Say("")
		ui.Say("Main Menu:")
		ui.Say("1. Manage Credentials (Add/Update/List)")
		ui.Say("2. Perform Login")
		ui.Say("3. Exit")

		switch ui.Prompt("Enter your choice (1-3): ") {
		case "1":
			cmd.credentialsMenu(st, ui, fp)
		case "2":
			cmd.performLogin(cfg, st, ui, fp)
		case "3", "":
			ui.Say("Exiting. Goodbye!")
			return nil
		default:
			ui.Say("Invalid choice. Please enter a number between 1 and 3.")
		}
	}
}

// credentialsMenu is the Manage Credentials submenu loop.
func (cmd *MenuCmd) credentialsMenu(st *store.Store, ui *ConsoleUI, fp *FormatterProvider) {
	for {
		ui.Say("")
		ui.Say("--- Credential Management Menu ---")
		ui.Say("1. Add a NEW account")
		ui.Say("2. Update an EXISTING account")
		ui.Say("3. List all accounts")
		ui.Say("4. Go back to Main Menu")

		var err error
		switch ui.Prompt("Enter your choice (1-4): ") {
		case "1":
			err = runAddAccount(st, ui)
		case "2":
			err = runUpdateAccount(st, ui)
		case "3":
			err = runListAccounts(st, fp.Formatter)
		case "4", "":
			return
		default:
			ui.Say("Invalid choice. Please enter a number between 1 and 4.")
		}

		if err != nil {
			fp.Formatter.PrintError(err)
		}
	}
}

// performLogin runs the login flow, reporting errors and returning to the
// main menu in every case.
func (cmd *MenuCmd) performLogin(cfg *config.Config, st *store.Store, ui *ConsoleUI, fp *FormatterProvider) {
	ui.Say("")
	ui.Say("--- Perform GST Login ---")

	runner, err := newLoginRunner(cfg, st, ui)
	if err != nil {
		output.ExitWithError(fp.Formatter, err)
		return
	}

	if err := runner.run(context.Background(), ""); err != nil {
		output.ExitWithError(fp.Formatter, err)
	}
}
