package cmd

import (
	"fmt"

	"trading-journal-go/internal/app"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/logger"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	configDir string
	logLevel  string
}

// NewRootCmd builds the journalctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "journalctl",
		Short: "Operate a trading journal",
		Long: `journalctl runs and administers the trading journal service.

It provides tools for:
  - Serving the REST API
  - Migrating the database schema
  - Creating users and their API tokens
  - Generating and clearing demo trades
  - Printing dashboard statistics and exporting trades as CSV`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config", "./configs", "directory holding config.yml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logger.level")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newUserCmd(opts),
		newDemoCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the configuration and wires the application.
func (o *options) load() (*app.App, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logger.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}

// closeApp flushes the logger and releases the application.
func closeApp(a *app.App) {
	a.Close()
	_ = a.Log.Sync()
}
