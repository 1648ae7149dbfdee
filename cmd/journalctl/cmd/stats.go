package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"github.com/spf13/cobra"
)

// filterFlags are the trade filter flags shared by stats and export.
type filterFlags struct {
	userID      uint
	from        string
	to          string
	symbol      string
	side        string
	categoryID  uint
	excludeDemo bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().UintVarP(&f.userID, "user", "u", 0, "user id (required)")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "only this symbol")
	cmd.Flags().StringVar(&f.side, "side", "", "LONG or SHORT")
	cmd.Flags().UintVar(&f.categoryID, "category", 0, "only this category id")
	cmd.Flags().BoolVar(&f.excludeDemo, "exclude-demo", false, "skip demo trades")
	_ = cmd.MarkFlagRequired("user")
}

func (f *filterFlags) filter() (journal.TradeFilter, error) {
	tf := journal.TradeFilter{
		Symbol:      f.symbol,
		Side:        models.Side(f.side),
		CategoryID:  f.categoryID,
		ExcludeDemo: f.excludeDemo,
	}
	var err error
	if f.from != "" {
		if tf.From, err = time.Parse(time.DateOnly, f.from); err != nil {
			return tf, fmt.Errorf("from: %w", err)
		}
	}
	if f.to != "" {
		if tf.To, err = time.Parse(time.DateOnly, f.to); err != nil {
			return tf, fmt.Errorf("to: %w", err)
		}
		tf.To = tf.To.Add(24*time.Hour - time.Nanosecond)
	}
	return tf, nil
}

func newStatsCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print a user's dashboard as JSON",
		Example: `  journalctl stats --user 1 --symbol BTC --from 2024-01-01 --to 2024-03-31`,
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

			d, err := a.Service.Dashboard(cmd.Context(), flags.userID, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
	flags.register(cmd)
	return cmd
}
