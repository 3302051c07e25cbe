package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath  string
	DataDir     string
	Verbose     bool
	Format      string // "json" | "text"
	MetricsFile string

	// WorkDir overrides the working directory config is resolved against.
	// Empty means os.Getwd().
	WorkDir string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the atomstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "atomstore",
		Short: "atomstore - records as parenthesized atoms in plain text files",
		Long: `Query and append records stored one per line as parenthesized atoms.

Vehicles, transactions and locations each live in their own file under the
data directory. Reads tolerate malformed lines; writes are atomic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.json, .jsonc, .yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding the record files")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write prometheus metrics to this file after the command")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewVehiclesCommand(opts))
	cmd.AddCommand(NewVehicleCommand(opts))
	cmd.AddCommand(NewTxnCommand(opts))
	cmd.AddCommand(NewLocationCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewSchemasCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
