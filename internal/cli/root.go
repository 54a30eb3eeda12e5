// Package cli implements the conformance command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/users-conformance/internal/app"
	"github.com/heartmarshall/users-conformance/internal/conformance"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	NoColor    bool

	// Overrides applied on top of the loaded configuration.
	Table      string
	TypePolicy string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Verify a users table against its schema and constraint contract",
		Long: `conformance checks a live PostgreSQL users table against a declared
contract: which columns exist, what types they have, and whether the store
accepts and rejects representative inserts and deletes the way the contract
says it must.

The constraint phase writes to and truncates the target table. Never point
it at a table holding data you want to keep.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (bad configuration, unreachable store, aborted run)`,
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (default $CONFIG_PATH or ./conformance.yaml)")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "print every scenario, not only failures")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.Table, "table", "", "table under test (overrides conformance.table and the contract's table)")
	pf.StringVar(&opts.TypePolicy, "type-policy", "", "type comparison policy: exact|lenient (overrides conformance.type_policy)")

	cmd.AddCommand(newPhaseCommand(opts, "schema", "Check column presence and types", conformance.PhaseSchema))
	cmd.AddCommand(newPhaseCommand(opts, "constraints", "Probe constraint enforcement with crafted inserts and deletes", conformance.PhaseConstraints))
	cmd.AddCommand(newPhaseCommand(opts, "all", "Run the schema and constraint phases", conformance.PhaseAll))
	cmd.AddCommand(newContractCommand(opts))
	cmd.AddCommand(newResetCommand(opts))

	return cmd
}
