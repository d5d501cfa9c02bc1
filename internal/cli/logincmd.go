package cli

import (
	"context"

	"github.com/gst-tools/gstcli/internal/config"
)

// LoginCmd implements the login command
type LoginCmd struct {
	TradeName string `arg:"" optional:"" help:"Trade name of the stored account (prompted when omitted)"`
}

// Run executes the login command
func (cmd *LoginCmd) Run(cfg *config.Config, fp *FormatterProvider, globals *Globals) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	runner, err := newLoginRunner(cfg, st, NewConsoleUI(globals))
	if err != nil {
		return err
	}

	return runner.run(context.Background(), cmd.TradeName)
}
