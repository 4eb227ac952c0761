package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for petscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "petscan",
		Short: "Search and track adoptable pets near a US city",
		Long: `petscan queries adoptable-pet listings near a US city, normalizes the
results, and stores them in a local SQLite database. Repeated searches
update existing records instead of duplicating them, so the database
accumulates a deduplicated view over time.

Stored data can be summarized (stats), exported as CSV (export), or
wiped (clear).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
