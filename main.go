package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gst-tools/gstcli/internal/cli"
	"github.com/gst-tools/gstcli/internal/output"
)

var (
	version = "dev"
)

func main() {
	// Parse CLI
	cliInstance := &cli.CLI{}
	ctx := kong.Parse(cliInstance,
		kong.Name("gstcli"),
		kong.Description("GST portal login automation with a local multi-account credential store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Run command with bound dependencies
	err := ctx.Run()
	if err != nil {
		// Handle error with proper exit code
		if cliErr, ok := err.(*output.CLIError); ok {
			formatter := output.New("plain")
			formatter.PrintError(err)
			if cliErr.Hint != "" {
				formatter.PrintHint(cliErr.Hint)
			}
			os.Exit(cliErr.ExitCode)
		}
		// Unknown error
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(output.ExitGeneral)
	}
}
