// Package cmd provides the ledger CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
)

var (
	envFile string
	debug   bool

	// Set up by the root command before any subcommand runs.
	cfg    *config.Config
	logger *log.Logger
	svc    *services.TransactionService
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Record income and outcome transactions",
	Long: `ledger keeps a list of income and outcome transactions, grouped by
day, with running totals.

Storage is chosen with DATA_BACKEND (memory, sqlite or postgres) and change
notifications with EVENTS_BACKEND (none, amqp or kafka). Settings are read
from the environment and from a .env file.

Example:
  ledger add --title Salary --amount 1500 --type income
  ledger list --page 0
  ledger totals`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.LoadEnvFile(envFile); err != nil {
			return err
		}
		c, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		l, err := cli.SetupLogger(c.LogLevel, debug, os.Stderr)
		if err != nil {
			return err
		}
		s, err := cli.NewService(cmd.Context(), c, l)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		cfg, logger, svc = c, l, s
		cmd.SetContext(log.NewContext(cmd.Context(), l))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		err := svc.Close()
		svc = nil
		return err
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if svc != nil {
		// a failed RunE skips the post-run hook
		_ = svc.Close()
		svc = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(mirrorCmd)
}
