// Package cli implements the tides command line.
//
// Every subcommand opens the store through server.Open, runs one
// tracker operation and prints the result in the --format chosen.
// serve starts the MCP server on stdio.
package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	StorePath string
	ConfigDir string
	Format    string // "text" | "json" | "yaml"
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the tides CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tides",
		Short: "Tides - track rhythmic work cycles",
		Long: `Tides tracks named work cycles ("tides") and the flow sessions
recorded against them. Run "tides serve" to expose the same operations
to an MCP client over stdio.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return usageError(fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "path of the tides JSON store (default: $XDG_DATA_HOME/tides/tides.json)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "directory holding config.yaml (default: $XDG_CONFIG_HOME/tides)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newCreateCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newFlowCommand(opts))
	cmd.AddCommand(newEndCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newInsightsCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stdout in json/yaml mode and on stderr otherwise.
func Execute(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{Format: "text"}
	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := ExitCode(err)
	f := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr}
	if !slices.Contains(ValidFormats, f.Format) {
		f.Format = "text"
	}
	if werr := f.Error(errorCode(err), err.Error()); werr != nil {
		fmt.Fprintln(stderr, err)
	}
	return code
}

// usageError marks err as a user mistake with cobra-level input.
func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return WrapExitError(ExitUserError, "usage", err)
}
