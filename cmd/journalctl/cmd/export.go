package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	var outPath string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export a user's trades as CSV",
		Example: `  journalctl export --user 1 --out trades.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}

			a, err := opts.load()
			if err != nil {
				return err
			}
			defer closeApp(a)

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer file.Close()
				w = file
			}
			return a.Service.ExportTrades(cmd.Context(), flags.userID, f, w)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
