package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tabgate/internal/tabular"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultPreviewRows = 10

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tabgate",
		Short:         "Inspect CSV and Excel datasets the way the gateway parses them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInspectCmd(), newVersionCmd())
	return root
}

// inspectReport mirrors the shape the upload endpoint returns.
type inspectReport struct {
	Format   tabular.Format   `json:"format"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"rowCount"`
	Preview  []tabular.Record `json:"preview"`
}

func newInspectCmd() *cobra.Command {
	var preview int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the columns, row count and leading records of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if preview < 0 {
				return fmt.Errorf("--preview must not be negative")
			}

			ds, err := tabular.Parse(args[0])
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(inspectReport{
				Format:   ds.Format,
				Columns:  ds.Columns,
				RowCount: ds.RowCount,
				Preview:  ds.Preview(preview),
			})
		},
	}
	cmd.Flags().IntVarP(&preview, "preview", "n", defaultPreviewRows, "number of leading records to print")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tabgate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tabgate", version)
		},
	}
}
