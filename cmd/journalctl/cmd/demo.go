package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDemoCmd(opts *options) *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate or clear demo trades",
	}

	var (
		userID uint
		count  int
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate demo trades for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer closeApp(a)

			n := count
			if n == 0 {
				n = a.Config.Demo.DefaultCount
			}
			trades, err := a.Service.GenerateDemoTrades(cmd.Context(), userID, n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d of %d demo trades\n", len(trades), n)
			return nil
		},
	}
	generateCmd.Flags().IntVarP(&count, "count", "n", 0, "number of trades (default demo.default_count)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every demo trade of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer closeApp(a)

			n, err := a.Service.ClearDemoTrades(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d demo trades\n", n)
			return nil
		},
	}

	demoCmd.PersistentFlags().UintVarP(&userID, "user", "u", 0, "user id (required)")
	_ = demoCmd.MarkPersistentFlagRequired("user")

	demoCmd.AddCommand(generateCmd, clearCmd)
	return demoCmd
}
