package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/users-conformance/internal/app"
)

type contractView struct {
	Table  string      `json:"table"`
	Policy string      `json:"type_policy"`
	Fields []fieldView `json:"fields"`
}

type fieldView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// newContractCommand prints the effective expected schema without touching
// the store.
func newContractCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "contract",
		Short:         "Print the expected schema the checks will use",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			desc, err := app.LoadDescriptor(cfg.Conformance)
			if err != nil {
				return WrapExitError(ExitCommandError, "load contract", err)
			}

			view := contractView{Table: desc.Table(), Policy: cfg.Conformance.Policy().String()}
			for _, f := range desc.Fields() {
				view.Fields = append(view.Fields, fieldView{Name: f.Name, Type: f.Type.String()})
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			fmt.Fprintf(out, "table %s (type policy %s)\n", view.Table, view.Policy)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, f := range view.Fields {
				fmt.Fprintf(tw, "  %s\t%s\n", f.Name, f.Type)
			}
			return tw.Flush()
		},
	}
}
