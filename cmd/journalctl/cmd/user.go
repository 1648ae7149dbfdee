package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newUserCmd(opts *options) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage journal users",
	}

	var (
		email   string
		name    string
		deposit string
	)
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user and print its API token",
		Example: `  journalctl user create --email trader@example.com --deposit 10000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(deposit)
			if err != nil {
				return fmt.Errorf("deposit: %w", err)
			}

			a, err := opts.load()
			if err != nil {
				return err
			}
			defer closeApp(a)

			u, err := a.Service.RegisterUser(cmd.Context(), email, name, amount)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created user %d (%s)\n", u.ID, u.Email)
			fmt.Fprintf(out, "API token: %s\n", u.APIToken)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "email address (required)")
	createCmd.Flags().StringVar(&name, "name", "", "display name")
	createCmd.Flags().StringVar(&deposit, "deposit", "0", "account deposit used for risk percentages")
	_ = createCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createCmd)
	return userCmd
}
