package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/users-conformance/internal/app"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	RestartIdentity bool
}

// newResetCommand empties the table under test, e.g. after an aborted run
// left probe rows behind.
func newResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "reset",
		Short:         "Truncate the table under test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.RootOptions)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

			removed, err := app.Reset(cmd.Context(), cfg, logger, opts.RestartIdentity)
			if err != nil {
				return WrapExitError(ExitCommandError, "reset failed", err)
			}

			if opts.Format == "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "{\"removed\": %d}\n", removed)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d rows\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.RestartIdentity, "restart-identity", false, "also restart the identity sequence")

	return cmd
}
