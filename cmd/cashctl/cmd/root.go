// Package cmd provides the cashctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/app"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/config"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/logger"
)

var (
	cfgFile string
	debug   bool

	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cashctl",
	Short: "Post and audit branch daily cash reports",
	Long: `cashctl works on the same ledger store as the reconciliation server.

It can:
- Show whether a report date is open, posted or blocked
- Post a day from a YAML day sheet through the full reconciliation gate
- Audit a branch's posted history for balance and continuity breaks
- Print the category catalog

Example:
  cashctl status --corporation acme --branch main --date 2024-03-02
  cashctl post day.yaml
  cashctl audit --corporation acme --branch main --from 2024-03-01`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if debug {
			level = "debug"
		}
		log = logger.New(level)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(catalogCmd)
}

// openApp loads configuration and opens the ledger it describes.
func openApp(ctx context.Context) *app.App {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate(), "invalid configuration")

	a, err := app.New(ctx, cfg, log)
	exitOnError(err, "failed to open ledger")
	return a
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close ledger resources")
	}
}

func exitOnError(err error, msg string) {
	if err != nil {
		log.Error().Err(err).Msg(msg)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
