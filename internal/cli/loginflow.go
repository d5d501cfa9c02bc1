package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gst-tools/gstcli/internal/config"
	"github.com/gst-tools/gstcli/internal/driver"
	"github.com/gst-tools/gstcli/internal/login"
	"github.com/gst-tools/gstcli/internal/output"
	"github.com/gst-tools/gstcli/internal/store"
)

// loginUI bundles the menu prompts with the human inputs a login attempt
// blocks on.
type loginUI interface {
	UI
	login.Prompter
}

// loginRunner owns one pass through the interactive login flow. Session
// construction is injected so tests can swap in a scripted browser.
type loginRunner struct {
	store       *store.Store
	ui          loginUI
	loginURL    string
	openSession func(ctx context.Context) (driver.Session, error)
	attemptOpts login.Options
}

// newLoginRunner checks the browser precondition and assembles the flow.
// A missing browser binary aborts the login feature, not the program.
func newLoginRunner(cfg *config.Config, st *store.Store, ui loginUI) (*loginRunner, error) {
	browserPath, err := driver.FindBrowser(cfg.BrowserPath)
	if err != nil {
		return nil, (&output.CLIError{
			Message:  fmt.Sprintf("Browser unavailable: %v", err),
			ExitCode: output.ExitConfigError,
		}).WithHint("Install Google Chrome or run: gstcli config set browser_path /path/to/chrome")
	}

	return &loginRunner{
		store:    st,
		ui:       ui,
		loginURL: cfg.ResolvedLoginURL(),
		openSession: func(ctx context.Context) (driver.Session, error) {
			return driver.NewSession(ctx, driver.Options{BrowserPath: browserPath})
		},
		attemptOpts: login.Options{LoginURL: cfg.ResolvedLoginURL()},
	}, nil
}

// run drives login attempts until one succeeds or the operator backs out.
// With a non-empty initialName exactly one attempt is made and its failure
// becomes the command's error; interactively the operator decides whether
// to retry, pick another account, or abandon.
func (r *loginRunner) run(ctx context.Context, initialName string) error {
	records, err := r.store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		r.ui.Say("No accounts found. Please add an account first.")
		return nil
	}

	r.sayAccounts(records)

	oneShot := initialName != ""
	name := initialName
	for {
		if name == "" {
			name = r.ui.Prompt("\nEnter the Trade Name of the account to log in with,\n or type 'list' to see options,\n or 'back' to return: ")
		}

		switch strings.ToLower(name) {
		case "", "back":
			return nil
		case "list":
			records, err = r.store.List()
			if err != nil {
				return err
			}
			r.sayAccounts(records)
			name = ""
			continue
		}

		index, err := r.store.Resolve(name)
		if err == store.ErrNotFound {
			r.ui.Say("Trade Name '%s' not found. Please choose from the available accounts.", name)
			if oneShot {
				return &output.CLIError{
					Message:  fmt.Sprintf("Trade Name '%s' not found", name),
					ExitCode: output.ExitNotFound,
				}
			}
			name = ""
			continue
		}
		if err != nil {
			return err
		}

		rec, err := r.store.Get(index)
		if err != nil {
			return err
		}
		if !rec.Complete() {
			r.ui.Say("Credentials for account '%s' (index %d) are incomplete.", rec.TradeName, index)
			r.ui.Say("Expected keys: %s and %s. Add or update them via 'Manage Credentials'.",
				store.UserIDKey(index), store.PasswordKey(index))
			if oneShot {
				return &output.CLIError{
					Message:  fmt.Sprintf("account '%s' is missing a username or password", rec.TradeName),
					ExitCode: output.ExitIncomplete,
				}
			}
			name = ""
			continue
		}

		outcome := r.attempt(ctx, rec)
		if outcome.Success {
			r.ui.Say("Successfully logged in with account: %s", rec.TradeName)
			return nil
		}

		if outcome.Err != nil {
			r.ui.Say("An error occurred during login: %v", outcome.Err)
		} else {
			r.ui.Say("Login failed for account: %s.", rec.TradeName)
			if outcome.PageError != "" {
				r.ui.Say("Error message: %s", outcome.PageError)
			}
		}
		r.ui.Say("Please check the credentials, CAPTCHA, or the portal's status and try again.")

		if oneShot {
			return &output.CLIError{
				Message:  fmt.Sprintf("login failed for account '%s'", rec.TradeName),
				ExitCode: output.ExitAutomation,
			}
		}
		name = ""
	}
}

// attempt opens a fresh session and runs the state machine once. The
// orchestrator guarantees the session is torn down on every path.
func (r *loginRunner) attempt(ctx context.Context, rec store.Record) login.Outcome {
	r.ui.Say("Attempting to log in with account: %s", rec.TradeName)

	session, err := r.openSession(ctx)
	if err != nil {
		return login.Outcome{Err: fmt.Errorf("failed to open browser session: %w", err)}
	}

	orch := login.New(session, r.ui, r.attemptOpts)
	return orch.Attempt(ctx, login.Credentials{
		TradeName: rec.TradeName,
		Username:  rec.Username,
		Password:  rec.Password,
	})
}

func (r *loginRunner) sayAccounts(records []store.Record) {
	r.ui.Say("\nAvailable accounts (Trade Names):")
	for _, rec := range records {
		r.ui.Say("- %s", rec.TradeName)
	}
}
