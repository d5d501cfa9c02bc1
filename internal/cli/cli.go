package cli

import (
	"github.com/alecthomas/kong"

	"github.com/gst-tools/gstcli/internal/config"
	"github.com/gst-tools/gstcli/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Menu     MenuCmd     `cmd:"" default:"1" help:"Interactive menu (default)"`
	Accounts AccountsCmd `cmd:"" help:"Manage stored portal accounts"`
	Login    LoginCmd    `cmd:"" help:"Log in to the portal with a stored account"`
	Config   ConfigCmd   `cmd:"" help:"Configuration commands"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// BeforeApply hook runs before any command execution
// It loads config, creates the formatter, and binds dependencies
func (c *CLI) BeforeApply(ctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Resolve output mode: CLI flag > config > auto
	if c.Output == "auto" && cfg.DefaultOutput != "" {
		c.Output = cfg.DefaultOutput
	}
	if c.CredentialsFile != "" {
		cfg.CredentialsFile = c.CredentialsFile
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)

	return nil
}

// AccountsCmd holds account subcommands
type AccountsCmd struct {
	Add    AccountsAddCmd    `cmd:"" help:"Add a new account"`
	Update AccountsUpdateCmd `cmd:"" help:"Update an existing account"`
	List   AccountsListCmd   `cmd:"" help:"List all stored accounts"`
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	println("gstcli version " + version)
	return nil
}
