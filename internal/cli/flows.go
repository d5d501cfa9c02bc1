package cli

import (
	"github.com/gst-tools/gstcli/internal/output"
	"github.com/gst-tools/gstcli/internal/store"
)

// runAddAccount walks the operator through adding (or overwriting) one
// account. Overwrites require explicit confirmation through the UI.
func runAddAccount(st *store.Store, ui UI) error {
	tradeName := ui.Prompt("Enter a NEW unique Trade Name for the account: ")
	if tradeName == "" {
		ui.Say("Trade Name cannot be empty. Aborting.")
		return nil
	}

	if existing, err := st.Resolve(tradeName); err == nil {
		ui.Say("Warning: Trade Name '%s' already exists with index %d.", tradeName, existing)
		if !ui.Confirm("Do you want to OVERWRITE its existing credentials?") {
			ui.Say("Aborting add operation.")
			return nil
		}
	} else if err != store.ErrNotFound {
		return err
	}

	username := ui.Prompt("Enter the username for '" + tradeName + "': ")
	password := ui.Prompt("Enter the password for '" + tradeName + "': ")
	if username == "" || password == "" {
		ui.Say("Username and password cannot be empty. Aborting.")
		return nil
	}

	index, err := st.Upsert(tradeName, username, password)
	if err != nil {
		return err
	}

	ui.Say("Account '%s' added/updated successfully with index %d.", tradeName, index)
	return nil
}

// runUpdateAccount updates an existing account in place. Blank inputs keep
// the stored values.
func runUpdateAccount(st *store.Store, ui UI) error {
	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ui.Say("No accounts found to update. Please add a new account first.")
		return nil
	}

	ui.Say("Existing accounts (Trade Names):")
	for _, rec := range records {
		ui.Say("- %s", rec.TradeName)
	}

	name := ui.Prompt("Enter the Trade Name of the account to update: ")
	index, err := st.Resolve(name)
	if err == store.ErrNotFound {
		ui.Say("Trade Name '%s' not found. Please choose from the existing accounts.", name)
		return nil
	}
	if err != nil {
		return err
	}

	rec, err := st.Get(index)
	if err != nil {
		return err
	}

	ui.Say("Updating credentials for '%s' (index: %d)", rec.TradeName, index)
	ui.Say("(Current username: %s)", orNotSet(rec.Username))
	ui.Say("(Current password: %s)", orNotSet(output.MaskSecret(rec.Password)))

	username := ui.Prompt("Enter NEW username (leave blank to keep current): ")
	password := ui.Prompt("Enter NEW password (leave blank to keep current): ")

	if username == "" && password == "" {
		ui.Say("No changes made.")
		return nil
	}

	if _, err := st.Upsert(rec.TradeName, username, password); err != nil {
		return err
	}

	ui.Say("Credentials for '%s' updated successfully.", rec.TradeName)
	return nil
}

// accountRow is the display projection of a stored account.
type accountRow struct {
	Index     int
	TradeName string
	Username  string
	Password  string
}

var accountColumns = []output.Column{
	{Name: "Index", Key: "Index"},
	{Name: "Trade Name", Key: "TradeName"},
	{Name: "Username", Key: "Username"},
	{Name: "Password", Key: "Password"},
}

// runListAccounts renders all stored accounts, passwords masked.
func runListAccounts(st *store.Store, formatter output.Formatter) error {
	records, err := st.List()
	if err != nil {
		return err
	}

	rows := make([]accountRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, accountRow{
			Index:     rec.Index,
			TradeName: rec.TradeName,
			Username:  rec.Username,
			Password:  output.MaskSecret(rec.Password),
		})
	}

	return formatter.PrintList(rows, accountColumns)
}

func orNotSet(value string) string {
	if value == "" {
		return "Not set"
	}
	return value
}
