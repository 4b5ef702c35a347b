// Package cmd defines the CLI commands for the scraper executable.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/config"
	"github.com/Engineering-Geek/Scraper/internal/logging"
)

var cfgFile string

// runtime holds the services every subcommand needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

var rt *runtime

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scraper",
		Short: "A politeness-aware news link and article harvester.",
		Long: `scraper discovers news article links for a set of queries over a date
range, then downloads, parses, and summarizes the articles behind them.
It paces itself with randomized delays and per-domain rate limits, and
persists link and article tables to a configurable blob store.`,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.New(logging.Config{
				Development: cfg.Logging.Development,
				FilePath:    cfg.Logging.FilePath,
			})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			rt = &runtime{cfg: cfg, logger: logger}
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt != nil && rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; env vars and defaults apply without one)")

	cmd.AddCommand(newLinksCmd())
	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
