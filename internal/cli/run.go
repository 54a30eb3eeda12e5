package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/users-conformance/internal/app"
	"github.com/heartmarshall/users-conformance/internal/config"
	"github.com/heartmarshall/users-conformance/internal/conformance"
)

func newPhaseCommand(opts *RootOptions, use, short string, phase conformance.Phase) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhase(cmd, opts, phase)
		},
	}
}

func runPhase(cmd *cobra.Command, opts *RootOptions, phase conformance.Phase) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.NoColor || cfg.Conformance.ColorDisabled() {
		color.NoColor = true
	}

	logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
	reporter := newReporter(opts, cmd.OutOrStdout())

	res, err := app.Run(cmd.Context(), cfg, logger, reporter, phase)
	if err != nil {
		return WrapExitError(ExitCommandError, "conformance run aborted", err)
	}
	if !res.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", res.Failed, res.Total()))
	}
	return nil
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	if opts.Table == "" && opts.TypePolicy == "" {
		return cfg, nil
	}
	if opts.Table != "" {
		cfg.Conformance.Table = opts.Table
	}
	if opts.TypePolicy != "" {
		cfg.Conformance.TypePolicy = opts.TypePolicy
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid flags", err)
	}
	return cfg, nil
}

func newReporter(opts *RootOptions, w io.Writer) conformance.Reporter {
	if opts.Format == "json" {
		return conformance.JSONReporter{Out: w}
	}
	return conformance.ConsoleReporter{Out: w, Verbose: opts.Verbose}
}
